package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"sort"
	"time"

	"void-cli/internal/model"
)

// Binary layout, all integers little-endian:
//
//	file    = "VOID" | u16 version | u32 payload length | payload | u32 crc32(payload)
//	payload = u64 max_id | u64 drawing_root | u32 view_y | u8 show_logs | u8 show_meta
//	          | u32 autosave_every | u32 arrow count | (u64 from, u64 to)*
//	          | u32 node count | (u32 record length | node)*
//	node    = u64 id | u64 parent | u32 child count | u64 child* | str content
//	          | u32 x | u32 y | u8 flags | opt(str) free_text | u8 color
//	          | i64 ctime | i64 mtime | opt(i64) finish | opt(i64) due
//	          | opt(f64 lat, f64 lon) gps | u32 tag count | (str key, str value)*
//	str     = u32 byte length | UTF-8 bytes
//	opt(T)  = u8 0 | u8 1 T
//
// Times are unix nanoseconds. Flags: 1 collapsed, 2 stricken, 4 hide_stricken, 8 auto_arrange.
// Selection is never written.

const (
	formatMagic   = "VOID"
	formatVersion = 1

	flagCollapsed    = 1 << 0
	flagStricken     = 1 << 1
	flagHideStricken = 1 << 2
	flagAutoArrange  = 1 << 3
)

var ErrCorrupt = errors.New("corrupt database")

// Snapshot is the persisted part of a screen.
type Snapshot struct {
	Nodes         *Nodes
	DrawingRoot   model.NodeID
	ViewY         int
	ShowLogs      bool
	ShowMeta      bool
	AutosaveEvery int
}

// Encode writes snap in the binary layout. Only nodes reachable from the super-root are written.
func Encode(w io.Writer, snap *Snapshot) error {
	if snap == nil || snap.Nodes == nil {
		return errors.New("encode: empty snapshot")
	}
	st := snap.Nodes
	reachable := st.Subtree(model.RootID)
	live := make(map[model.NodeID]bool, len(reachable))
	for _, id := range reachable {
		live[id] = true
	}
	ids := st.SortedIDs()

	var p encoder
	p.u64(uint64(st.MaxID))
	p.u64(uint64(snap.DrawingRoot))
	p.u32(uint32(max(snap.ViewY, 0)))
	p.boolean(snap.ShowLogs)
	p.boolean(snap.ShowMeta)
	p.u32(uint32(max(snap.AutosaveEvery, 0)))

	var arrows []model.Arrow
	for _, a := range st.Arrows {
		if live[a.From] && live[a.To] {
			arrows = append(arrows, a)
		}
	}
	p.u32(uint32(len(arrows)))
	for _, a := range arrows {
		p.u64(uint64(a.From))
		p.u64(uint64(a.To))
	}

	p.u32(uint32(len(reachable)))
	for _, id := range ids {
		if !live[id] {
			continue
		}
		var rec encoder
		rec.node(st.Nodes[id])
		p.u32(uint32(rec.buf.Len()))
		p.buf.Write(rec.buf.Bytes())
	}

	payload := p.buf.Bytes()
	var head encoder
	head.buf.WriteString(formatMagic)
	head.u16(formatVersion)
	head.u32(uint32(len(payload)))
	if _, err := w.Write(head.buf.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	var tail encoder
	tail.u32(crc32.ChecksumIEEE(payload))
	_, err := w.Write(tail.buf.Bytes())
	return err
}

// Decode reads a snapshot and validates the tree. Selection flags come back cleared.
func Decode(b []byte) (*Snapshot, error) {
	if len(b) < len(formatMagic)+2+4+4 || string(b[:4]) != formatMagic {
		return nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint16(b[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	n := int(binary.LittleEndian.Uint32(b[6:10]))
	if n < 0 || 10+n+4 != len(b) {
		return nil, fmt.Errorf("%w: payload length %d does not match file size %d", ErrCorrupt, n, len(b))
	}
	payload := b[10 : 10+n]
	if sum := binary.LittleEndian.Uint32(b[10+n:]); sum != crc32.ChecksumIEEE(payload) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	d := &decoder{b: payload}
	st := &Nodes{Nodes: map[model.NodeID]*model.Node{}}
	st.MaxID = model.NodeID(d.u64())
	snap := &Snapshot{Nodes: st}
	snap.DrawingRoot = model.NodeID(d.u64())
	snap.ViewY = int(d.u32())
	snap.ShowLogs = d.boolean()
	snap.ShowMeta = d.boolean()
	snap.AutosaveEvery = int(d.u32())

	arrows := int(d.u32())
	for i := 0; i < arrows && d.err == nil; i++ {
		st.Arrows = append(st.Arrows, model.Arrow{From: model.NodeID(d.u64()), To: model.NodeID(d.u64())})
	}
	count := int(d.u32())
	for i := 0; i < count && d.err == nil; i++ {
		size := int(d.u32())
		body := d.take(size)
		if d.err != nil {
			break
		}
		rd := &decoder{b: body}
		node := rd.node()
		if rd.err != nil {
			return nil, fmt.Errorf("%w: node record %d: %v", ErrCorrupt, i, rd.err)
		}
		if _, dup := st.Nodes[node.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %d", ErrCorrupt, node.ID)
		}
		st.Nodes[node.ID] = node
	}
	if d.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, d.err)
	}
	if d.off != len(d.b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.b)-d.off)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !st.Has(snap.DrawingRoot) {
		return nil, fmt.Errorf("%w: drawing root %d is missing", ErrCorrupt, snap.DrawingRoot)
	}
	return snap, nil
}

type encoder struct {
	buf bytes.Buffer
	tmp [8]byte
}

func (e *encoder) u8(v uint8) { e.buf.WriteByte(v) }

func (e *encoder) u16(v uint16) {
	binary.LittleEndian.PutUint16(e.tmp[:2], v)
	e.buf.Write(e.tmp[:2])
}

func (e *encoder) u32(v uint32) {
	binary.LittleEndian.PutUint32(e.tmp[:4], v)
	e.buf.Write(e.tmp[:4])
}

func (e *encoder) u64(v uint64) {
	binary.LittleEndian.PutUint64(e.tmp[:8], v)
	e.buf.Write(e.tmp[:8])
}

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) f64(v float64) { e.u64(math.Float64bits(v)) }

func (e *encoder) time(t time.Time) { e.i64(t.UnixNano()) }

func (e *encoder) boolean(v bool) {
	if v {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.buf.WriteString(s)
}

func (e *encoder) optTime(t *time.Time) {
	e.boolean(t != nil)
	if t != nil {
		e.time(*t)
	}
}

func (e *encoder) node(n *model.Node) {
	e.u64(uint64(n.ID))
	e.u64(uint64(n.ParentID))
	e.u32(uint32(len(n.Children)))
	for _, c := range n.Children {
		e.u64(uint64(c))
	}
	e.str(n.Content)
	e.u32(uint32(max(n.RootedCoords.X, 0)))
	e.u32(uint32(max(n.RootedCoords.Y, 0)))

	var flags uint8
	if n.Collapsed {
		flags |= flagCollapsed
	}
	if n.Stricken {
		flags |= flagStricken
	}
	if n.HideStricken {
		flags |= flagHideStricken
	}
	if n.AutoArrange {
		flags |= flagAutoArrange
	}
	e.u8(flags)

	e.boolean(n.FreeText != nil)
	if n.FreeText != nil {
		e.str(*n.FreeText)
	}
	e.u8(uint8(n.Color))
	e.time(n.Meta.CTime)
	e.time(n.Meta.MTime)
	e.optTime(n.Meta.FinishTime)
	e.optTime(n.Meta.Due)
	e.boolean(n.Meta.GPS != nil)
	if n.Meta.GPS != nil {
		e.f64(n.Meta.GPS.Lat)
		e.f64(n.Meta.GPS.Lon)
	}

	keys := sortedKeys(n.Meta.Tags)
	e.u32(uint32(len(keys)))
	for _, k := range keys {
		e.str(k)
		e.str(n.Meta.Tags[k])
	}
}

// decoder keeps the first error; later reads return zero values.
type decoder struct {
	b   []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.b) {
		d.err = io.ErrUnexpectedEOF
		return nil
	}
	out := d.b[d.off : d.off+n]
	d.off += n
	return out
}

func (d *decoder) u8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) boolean() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = errors.New("invalid boolean tag")
		}
		return false
	}
}

func (d *decoder) str() string {
	n := d.u32()
	return string(d.take(int(n)))
}

func (d *decoder) time() time.Time {
	return time.Unix(0, int64(d.u64())).UTC()
}

func (d *decoder) optTime() *time.Time {
	if !d.boolean() {
		return nil
	}
	t := d.time()
	return &t
}

func (d *decoder) node() *model.Node {
	n := &model.Node{}
	n.ID = model.NodeID(d.u64())
	n.ParentID = model.NodeID(d.u64())
	children := int(d.u32())
	if children > len(d.b)/8 {
		d.err = fmt.Errorf("child count %d exceeds record size", children)
		return n
	}
	for i := 0; i < children; i++ {
		n.Children = append(n.Children, model.NodeID(d.u64()))
	}
	n.Content = d.str()
	n.RootedCoords.X = int(d.u32())
	n.RootedCoords.Y = int(d.u32())

	flags := d.u8()
	n.Collapsed = flags&flagCollapsed != 0
	n.Stricken = flags&flagStricken != 0
	n.HideStricken = flags&flagHideStricken != 0
	n.AutoArrange = flags&flagAutoArrange != 0

	if d.boolean() {
		s := d.str()
		n.FreeText = &s
	}
	n.Color = model.Color(d.u8())
	if !n.Color.Valid() {
		n.Color = model.ColorDefault
	}
	n.Meta.CTime = d.time()
	n.Meta.MTime = d.time()
	n.Meta.FinishTime = d.optTime()
	n.Meta.Due = d.optTime()
	if d.boolean() {
		n.Meta.GPS = &model.GPS{
			Lat: math.Float64frombits(d.u64()),
			Lon: math.Float64frombits(d.u64()),
		}
	}
	tags := int(d.u32())
	if tags > len(d.b)/8 {
		d.err = fmt.Errorf("tag count %d exceeds record size", tags)
		return n
	}
	if tags > 0 {
		n.Meta.Tags = make(map[string]string, tags)
	}
	for i := 0; i < tags; i++ {
		k := d.str()
		n.Meta.Tags[k] = d.str()
	}
	return n
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
