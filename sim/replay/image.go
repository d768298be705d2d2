package replay

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageHeader is the first line of a memory image file.
const ImageHeader = "v2.0 raw"

// MaxImageWords bounds the decoded size of an image.
const MaxImageWords = 1 << 24

// maxImageLine bounds a single line of image text. An image may be written
// as one line of words.
const maxImageLine = 16 << 20

// ParseImage decodes a memory image: the header line followed by
// whitespace-separated hexadecimal words. A word written N*V stands for N
// copies of V. Text from # to the end of a line is ignored.
func ParseImage(contents []byte) ([]uint32, error) {
	sc := bufio.NewScanner(bytes.NewReader(contents))
	sc.Buffer(make([]byte, 0, 64*1024), max(maxImageLine, len(contents)+1))
	var words []uint32
	header := false
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if !header {
			if text != ImageHeader {
				return nil, errors.Errorf("line %d: missing %q header", line, ImageHeader)
			}
			header = true
			continue
		}
		for _, tok := range strings.Fields(text) {
			count, value := uint64(1), tok
			if n, v, ok := strings.Cut(tok, "*"); ok {
				c, err := strconv.ParseUint(n, 10, 32)
				if err != nil || c == 0 {
					return nil, errors.Errorf("line %d: bad repeat count in %q", line, tok)
				}
				count, value = c, v
			}
			w, err := strconv.ParseUint(value, 16, 32)
			if err != nil {
				return nil, errors.Errorf("line %d: bad word %q", line, tok)
			}
			if uint64(len(words))+count > MaxImageWords {
				return nil, errors.Errorf("line %d: image exceeds %d words", line, MaxImageWords)
			}
			for ; count > 0; count-- {
				words = append(words, uint32(w))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning memory image")
	}
	if !header {
		return nil, errors.Errorf("missing %q header", ImageHeader)
	}
	return words, nil
}
