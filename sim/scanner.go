package sim

// Devices groups the terminal devices found under a state node, by role.
// Within a role, devices appear in depth-first pre-order of the state tree
// and local-device order within each node, so the order is stable for a
// given tree.
type Devices struct {
	Memories    []Memory
	CharOutputs []CharOutput
	CharInputs  []CharInput
	OutputPins  []Pin
	HaltPins    []Pin
	// Ignored holds devices claiming a role whose interface they do not
	// implement.
	Ignored []Device
}

// Found reports whether at least one device with role r was found.
func (d *Devices) Found(r Role) bool {
	switch r {
	case RoleMemory:
		return len(d.Memories) > 0
	case RoleCharOutput:
		return len(d.CharOutputs) > 0
	case RoleCharInput:
		return len(d.CharInputs) > 0
	case RoleOutputPin:
		return len(d.OutputPins) > 0
	case RoleHaltPin:
		return len(d.HaltPins) > 0
	}
	return false
}

// Scan walks the subtree rooted at root and classifies every terminal
// device by role. Each node is visited exactly once. A nil root yields an
// empty result.
func Scan(root State) *Devices {
	d := &Devices{}
	if root == nil {
		return d
	}
	stack := []State{root}
	for len(stack) > 0 {
		n := len(stack) - 1
		st := stack[n]
		stack = stack[:n]
		for _, dev := range st.LocalDevices() {
			d.add(dev)
		}
		children := st.Children()
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, children[i])
			}
		}
	}
	return d
}

func (d *Devices) add(dev Device) {
	if dev == nil {
		return
	}
	ok := true
	switch dev.Role() {
	case RoleNone:
	case RoleMemory:
		var m Memory
		if m, ok = dev.(Memory); ok {
			d.Memories = append(d.Memories, m)
		}
	case RoleCharOutput:
		var o CharOutput
		if o, ok = dev.(CharOutput); ok {
			d.CharOutputs = append(d.CharOutputs, o)
		}
	case RoleCharInput:
		var in CharInput
		if in, ok = dev.(CharInput); ok {
			d.CharInputs = append(d.CharInputs, in)
		}
	case RoleOutputPin:
		var p Pin
		if p, ok = dev.(Pin); ok {
			d.OutputPins = append(d.OutputPins, p)
		}
	case RoleHaltPin:
		var p Pin
		if p, ok = dev.(Pin); ok {
			d.HaltPins = append(d.HaltPins, p)
		}
	}
	if !ok {
		d.Ignored = append(d.Ignored, dev)
	}
}
