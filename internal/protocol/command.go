package protocol

// Command is a decoded incoming message. The set of implementations is
// closed; consumers switch over the concrete types.
type Command interface {
	command()
}

// WindowDescriptor is the window shape carried by lifecycle messages.
type WindowDescriptor struct {
	ID     string
	X      int
	Y      int
	Width  int
	Height int
	Owner  string
	Type   string
	Title  string
}

// OpenWindow registers a top-level window, or replaces an existing one.
type OpenWindow struct {
	Target string
	Window WindowDescriptor
}

// CloseWindow removes a window and its buffer.
type CloseWindow struct {
	Window string
}

// CreateChildWindow opens a window under an existing parent.
type CreateChildWindow struct {
	Parent string
	Window WindowDescriptor
}

// CloseChildWindow removes a child window.
type CloseChildWindow struct {
	Window string
}

// WindowList is a full snapshot. Windows keep the order the peer sent them in.
type WindowList struct {
	Windows []WindowDescriptor
}

// WindowSetSize resizes a window and reallocates its buffer.
type WindowSetSize struct {
	Window string
	Width  int
	Height int
}

// DrawPixel sets one pixel in a window buffer.
type DrawPixel struct {
	Window string
	X      int
	Y      int
	Color  string
}

// DrawRect fills a rectangle in a window buffer.
type DrawRect struct {
	Window string
	X      int
	Y      int
	Width  int
	Height int
	Color  string
}

// DrawImage carries width*height*4 bytes of row-major RGBA.
type DrawImage struct {
	Window string
	X      int
	Y      int
	Width  int
	Height int
	Depth  int
	Color  string
	Pixels []byte
}

// LinkUp is queued by the transport once a session is established.
type LinkUp struct {
	Session string
}

// LinkDown is queued by the transport when a session ends, for any reason.
type LinkDown struct {
	Session string
	Reason  string
}

func (OpenWindow) command()        {}
func (CloseWindow) command()       {}
func (CreateChildWindow) command() {}
func (CloseChildWindow) command()  {}
func (WindowList) command()        {}
func (WindowSetSize) command()     {}
func (DrawPixel) command()         {}
func (DrawRect) command()          {}
func (DrawImage) command()         {}
func (LinkUp) command()            {}
func (LinkDown) command()          {}
