package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingType is returned for frames without a string "type" field.
var ErrMissingType = errors.New("frame has no string type field")

// UnknownTagError reports a frame whose tag is not in the decode table.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Tag)
}

// MalformedError reports a known tag whose body could not be decoded.
type MalformedError struct {
	Tag string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Tag, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// maxGroupDepth bounds nested group messages.
const maxGroupDepth = 4

type decodeFunc func(d *Decoder, body []byte, depth int) ([]Command, error)

// Decoder turns text frames into commands using a fixed tag table.
type Decoder struct {
	table map[string]decodeFunc
}

// NewDecoder returns a decoder that knows every incoming tag.
func NewDecoder() *Decoder {
	return &Decoder{
		table: map[string]decodeFunc{
			TagConnected:         decodeConnected,
			TagOpenWindow:        decodeOpenWindow,
			TagCloseWindow:       decodeCloseWindow,
			TagCreateChildWindow: decodeCreateChild,
			TagCloseChildWindow:  decodeCloseChild,
			TagWindowList:        decodeWindowList,
			TagWindowSetSize:     decodeWindowSetSize,
			TagDrawPixel:         decodeDrawPixel,
			TagDrawRect:          decodeDrawRect,
			TagDrawImage:         decodeDrawImage,
			TagGroup:             decodeGroup,
		},
	}
}

// Known reports whether tag has a decoder.
func (d *Decoder) Known(tag string) bool {
	_, ok := d.table[tag]
	return ok
}

// Decode parses one frame. A group yields one command per sub-message in
// order; sub-messages that fail are reported in the returned error while the
// rest are still returned. The connected acknowledgement yields nothing.
func (d *Decoder) Decode(frame []byte) ([]Command, error) {
	return d.decode(frame, 0)
}

func (d *Decoder) decode(frame []byte, depth int) ([]Command, error) {
	tag, err := frameTag(frame)
	if err != nil {
		return nil, err
	}
	fn, ok := d.table[tag]
	if !ok {
		return nil, &UnknownTagError{Tag: tag}
	}
	cmds, err := fn(d, frame, depth)
	if err != nil {
		var unknown *UnknownTagError
		var malformed *MalformedError
		if errors.As(err, &unknown) || errors.As(err, &malformed) {
			return cmds, err
		}
		return cmds, &MalformedError{Tag: tag, Err: err}
	}
	return cmds, nil
}

func frameTag(frame []byte) (string, error) {
	var head struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(frame, &head); err != nil {
		return "", &MalformedError{Tag: "frame", Err: err}
	}
	var tag string
	if len(head.Type) == 0 || json.Unmarshal(head.Type, &tag) != nil || tag == "" {
		return "", ErrMissingType
	}
	return tag, nil
}

// decodeFields rejects bodies that omit any required field, then decodes
// into dst. Unknown fields are ignored.
func decodeFields(body []byte, dst any, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	for _, name := range required {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fmt.Errorf("missing field %q", name)
		}
	}
	return json.Unmarshal(body, dst)
}

type wireDescriptor struct {
	ID         string `json:"id"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Owner      string `json:"owner"`
	WindowType string `json:"window_type"`
	Title      string `json:"title"`
}

var descriptorFields = []string{"id", "x", "y", "width", "height", "owner", "window_type"}

func parseDescriptor(raw []byte, required []string) (WindowDescriptor, error) {
	var w wireDescriptor
	if err := decodeFields(raw, &w, required...); err != nil {
		return WindowDescriptor{}, fmt.Errorf("window: %w", err)
	}
	if w.Width < 0 || w.Height < 0 {
		return WindowDescriptor{}, fmt.Errorf("window %q: negative size %dx%d", w.ID, w.Width, w.Height)
	}
	return WindowDescriptor{
		ID:     w.ID,
		X:      w.X,
		Y:      w.Y,
		Width:  w.Width,
		Height: w.Height,
		Owner:  w.Owner,
		Type:   w.WindowType,
		Title:  w.Title,
	}, nil
}

// windowRef accepts either a bare id string or a descriptor object.
type windowRef string

func (r *windowRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = windowRef(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("window reference: %w", err)
	}
	*r = windowRef(obj.ID)
	return nil
}

func decodeConnected(*Decoder, []byte, int) ([]Command, error) {
	return nil, nil
}

func decodeOpenWindow(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Target string          `json:"target"`
		Window json.RawMessage `json:"window"`
	}
	if err := decodeFields(body, &msg, "window"); err != nil {
		return nil, err
	}
	desc, err := parseDescriptor(msg.Window, descriptorFields)
	if err != nil {
		return nil, err
	}
	return []Command{OpenWindow{Target: msg.Target, Window: desc}}, nil
}

func decodeCloseWindow(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Window windowRef `json:"window"`
	}
	if err := decodeFields(body, &msg, "window"); err != nil {
		return nil, err
	}
	if msg.Window == "" {
		return nil, errors.New("empty window id")
	}
	return []Command{CloseWindow{Window: string(msg.Window)}}, nil
}

func decodeCreateChild(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Parent string          `json:"parent"`
		Window json.RawMessage `json:"window"`
	}
	if err := decodeFields(body, &msg, "parent", "window"); err != nil {
		return nil, err
	}
	desc, err := parseDescriptor(msg.Window, descriptorFields)
	if err != nil {
		return nil, err
	}
	return []Command{CreateChildWindow{Parent: msg.Parent, Window: desc}}, nil
}

func decodeCloseChild(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Window windowRef `json:"window"`
	}
	if err := decodeFields(body, &msg, "window"); err != nil {
		return nil, err
	}
	if msg.Window == "" {
		return nil, errors.New("empty window id")
	}
	return []Command{CloseChildWindow{Window: string(msg.Window)}}, nil
}

// decodeWindowList walks the windows object with a token decoder so the
// peer's ordering survives into the registry's z-order.
func decodeWindowList(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Windows json.RawMessage `json:"windows"`
	}
	if err := decodeFields(body, &msg, "windows"); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(msg.Windows))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("windows must be an object keyed by id")
	}

	var list WindowList
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var entry json.RawMessage
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("window %q: %w", key, err)
		}
		desc, err := parseDescriptor(entry, descriptorFields[1:])
		if err != nil {
			return nil, err
		}
		if desc.ID == "" {
			desc.ID = key
		}
		list.Windows = append(list.Windows, desc)
	}
	return []Command{list}, nil
}

func decodeWindowSetSize(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Window string `json:"window"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	if err := decodeFields(body, &msg, "window", "width", "height"); err != nil {
		return nil, err
	}
	if msg.Width < 0 || msg.Height < 0 {
		return nil, fmt.Errorf("negative size %dx%d", msg.Width, msg.Height)
	}
	return []Command{WindowSetSize{Window: msg.Window, Width: msg.Width, Height: msg.Height}}, nil
}

func decodeDrawPixel(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Window string `json:"window"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Color  string `json:"color"`
	}
	if err := decodeFields(body, &msg, "window", "x", "y", "color"); err != nil {
		return nil, err
	}
	return []Command{DrawPixel{Window: msg.Window, X: msg.X, Y: msg.Y, Color: msg.Color}}, nil
}

func decodeDrawRect(_ *Decoder, body []byte, _ int) ([]Command, error) {
	var msg struct {
		Window string `json:"window"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Color  string `json:"color"`
	}
	if err := decodeFields(body, &msg, "window", "x", "y", "width", "height", "color"); err != nil {
		return nil, err
	}
	return []Command{DrawRect{
		Window: msg.Window,
		X:      msg.X,
		Y:      msg.Y,
		Width:  msg.Width,
		Height: msg.Height,
		Color:  msg.Color,
	}}, nil
}

func decodeDrawImage(_ *Decoder, body []byte, _ int) ([]Command, error) {
	msg := struct {
		Window string `json:"window"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Depth  int    `json:"depth"`
		Color  string `json:"color"`
		Pixels Pixels `json:"pixels"`
	}{Depth: 8, Color: "black"}
	if err := decodeFields(body, &msg, "window", "x", "y", "width", "height", "pixels"); err != nil {
		return nil, err
	}
	want, ok := ImageBytes(msg.Width, msg.Height)
	if !ok {
		return nil, fmt.Errorf("invalid image size %dx%d", msg.Width, msg.Height)
	}
	if len(msg.Pixels) != want {
		return nil, fmt.Errorf("pixels: got %d bytes, want %d", len(msg.Pixels), want)
	}
	return []Command{DrawImage{
		Window: msg.Window,
		X:      msg.X,
		Y:      msg.Y,
		Width:  msg.Width,
		Height: msg.Height,
		Depth:  msg.Depth,
		Color:  msg.Color,
		Pixels: []byte(msg.Pixels),
	}}, nil
}

func decodeGroup(d *Decoder, body []byte, depth int) ([]Command, error) {
	if depth >= maxGroupDepth {
		return nil, fmt.Errorf("group nesting deeper than %d", maxGroupDepth)
	}
	var msg struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := decodeFields(body, &msg, "messages"); err != nil {
		return nil, err
	}

	var (
		out  []Command
		errs []error
	)
	for i, sub := range msg.Messages {
		cmds, err := d.decode(sub, depth+1)
		if err != nil {
			errs = append(errs, fmt.Errorf("message %d: %w", i, err))
		}
		out = append(out, cmds...)
	}
	return out, errors.Join(errs...)
}
