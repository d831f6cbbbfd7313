package h2c

// FlowController tracks one direction's flow-control window (spec.md
// §4.F): current_window counts bytes already sent/received that the
// peer hasn't yet credited back; max_window is the window size
// negotiated via SETTINGS; threshold gates how eagerly WINDOW_UPDATE
// frames are produced.
type FlowController struct {
	currentWindow int64
	maxWindow     uint32
	threshold     uint32
}

// NewFlowController returns a controller with the given max window and
// update threshold, starting at zero consumed.
func NewFlowController(maxWindow, threshold uint32) *FlowController {
	return &FlowController{maxWindow: maxWindow, threshold: threshold}
}

func (f *FlowController) CurrentWindow() int64 { return f.currentWindow }
func (f *FlowController) MaxWindow() uint32    { return f.maxWindow }

func (f *FlowController) SetMaxWindow(n uint32) { f.maxWindow = n }
func (f *FlowController) SetThreshold(n uint32)  { f.threshold = n }

// Available returns how many bytes may still be sent/received before
// the window is exhausted.
func (f *FlowController) Available() int64 {
	avail := int64(f.maxWindow) - f.currentWindow
	if avail < 0 {
		return 0
	}
	return avail
}

// Receive accounts for n bytes of DATA crossing the wire in this
// direction, advancing current_window (spec.md §4.F receive).
func (f *FlowController) Receive(n uint32) {
	f.currentWindow += int64(n)
}

// ApplyWindowUpdate credits back n bytes, as when a WINDOW_UPDATE frame
// arrives (spec.md §4.F apply_window_update).
func (f *FlowController) ApplyWindowUpdate(n uint32) {
	f.currentWindow -= int64(n)
}

// CreateWindowUpdate returns the increment a WINDOW_UPDATE frame should
// carry, or 0 if none is warranted yet: current_window must be below
// both max_window and threshold, and the computed increment must be
// positive (spec.md §4.F create_window_update).
func (f *FlowController) CreateWindowUpdate() uint32 {
	if f.currentWindow >= int64(f.threshold) {
		return 0
	}
	if f.currentWindow >= int64(f.maxWindow) {
		return 0
	}
	n := int64(f.maxWindow) - f.currentWindow
	if n > int64(MaxWindowSize) {
		n = int64(MaxWindowSize)
	}
	if n <= 0 {
		return 0
	}
	return uint32(n)
}
