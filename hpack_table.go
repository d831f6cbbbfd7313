package h2c

// RefMark is the state of one reference-set entry (spec.md §4.C).
type RefMark uint8

const (
	MarkNone RefMark = iota
	MarkEmitted
	MarkCommon
)

type refEntry struct {
	idx  int
	mark RefMark
}

type dynEntry struct {
	name, value []byte
}

func (e dynEntry) size() int {
	return len(e.name) + len(e.value) + 32
}

// staticEntry is a fixed (name, value) pair of the HPACK static table,
// grounded on the RFC 7541 Appendix A table (61 entries; spec.md §4.C
// rounds this to "60 entries", a discrepancy this implementation
// resolves by carrying the full Appendix A list and deriving every
// bound from len(staticTable) rather than a hardcoded constant).
type staticEntry struct {
	name, value []byte
}

var staticTable = [61]staticEntry{
	{name: []byte(":authority")},
	{name: []byte(":method"), value: []byte("GET")},
	{name: []byte(":method"), value: []byte("POST")},
	{name: []byte(":path"), value: []byte("/")},
	{name: []byte(":path"), value: []byte("/index.html")},
	{name: []byte(":scheme"), value: []byte("http")},
	{name: []byte(":scheme"), value: []byte("https")},
	{name: []byte(":status"), value: []byte("200")},
	{name: []byte(":status"), value: []byte("204")},
	{name: []byte(":status"), value: []byte("206")},
	{name: []byte(":status"), value: []byte("304")},
	{name: []byte(":status"), value: []byte("400")},
	{name: []byte(":status"), value: []byte("404")},
	{name: []byte(":status"), value: []byte("500")},
	{name: []byte("accept-charset")},
	{name: []byte("accept-encoding"), value: []byte("gzip, deflate")},
	{name: []byte("accept-language")},
	{name: []byte("accept-ranges")},
	{name: []byte("accept")},
	{name: []byte("access-control-allow-origin")},
	{name: []byte("age")},
	{name: []byte("allow")},
	{name: []byte("authorization")},
	{name: []byte("cache-control")},
	{name: []byte("content-disposition")},
	{name: []byte("content-encoding")},
	{name: []byte("content-language")},
	{name: []byte("content-length")},
	{name: []byte("content-location")},
	{name: []byte("content-range")},
	{name: []byte("content-type")},
	{name: []byte("cookie")},
	{name: []byte("date")},
	{name: []byte("etag")},
	{name: []byte("expect")},
	{name: []byte("expires")},
	{name: []byte("from")},
	{name: []byte("host")},
	{name: []byte("if-match")},
	{name: []byte("if-modified-since")},
	{name: []byte("if-none-match")},
	{name: []byte("if-range")},
	{name: []byte("if-unmodified-since")},
	{name: []byte("last-modified")},
	{name: []byte("link")},
	{name: []byte("location")},
	{name: []byte("max-forwards")},
	{name: []byte("proxy-authenticate")},
	{name: []byte("proxy-authorization")},
	{name: []byte("range")},
	{name: []byte("referer")},
	{name: []byte("refresh")},
	{name: []byte("retry-after")},
	{name: []byte("server")},
	{name: []byte("set-cookie")},
	{name: []byte("strict-transport-security")},
	{name: []byte("transfer-encoding")},
	{name: []byte("user-agent")},
	{name: []byte("vary")},
	{name: []byte("via")},
	{name: []byte("www-authenticate")},
}

// Context is per-direction HPACK state: the dynamic table, the static
// table lookup, and the reference set (spec.md §4.C). A connection owns
// one Context per direction; encoder and decoder variants are thin
// wrappers sharing the same Context type rather than subclasses
// (spec.md §9 design note).
type Context struct {
	table  []dynEntry // index 0 is the most recently inserted entry
	limit  int
	refset []refEntry

	// onEvict, if set, is invoked for every refset entry dropped by
	// evictTail before it disappears (spec.md §4.D: a `common`-marked
	// entry must be resurrected with two indexed representations before
	// removal). Used only by the "always" refset encoder strategy; nil
	// otherwise.
	onEvict func(r refEntry)
}

// NewContext returns a Context with dynamic table size limit bytes.
func NewContext(limit int) *Context {
	return &Context{limit: limit}
}

// Clone returns a value-type copy: a shallow copy of the table slots
// (entries are immutable once inserted) and a deep copy of the refset
// (marks are mutated independently). Used by the "shorter" refset
// strategy to run both encodings speculatively (spec.md §9).
func (c *Context) Clone() *Context {
	cp := &Context{limit: c.limit}
	cp.table = append([]dynEntry(nil), c.table...)
	cp.refset = append([]refEntry(nil), c.refset...)
	return cp
}

// TableSize returns the dynamic table's current cumulative cost.
func (c *Context) TableSize() int {
	total := 0
	for _, e := range c.table {
		total += e.size()
	}
	return total
}

// Limit returns the dynamic table's size cap.
func (c *Context) Limit() int { return c.limit }

// Dereference resolves a zero-based index into the dynamic table, then
// the static table (spec.md §4.C).
func (c *Context) Dereference(index int) (name, value []byte, isStatic bool, err error) {
	if index < 0 {
		return nil, nil, false, compressionError("Index too large")
	}
	if index < len(c.table) {
		e := c.table[index]
		return e.name, e.value, false, nil
	}
	si := index - len(c.table)
	if si >= len(staticTable) {
		return nil, nil, false, compressionError("Index too large")
	}
	e := staticTable[si]
	return e.name, e.value, true, nil
}

// findDynamic returns the dynamic-table index of (name, value) if
// present, or -1.
func (c *Context) findDynamic(name, value []byte) int {
	for i, e := range c.table {
		if string(e.name) == string(name) && string(e.value) == string(value) {
			return i
		}
	}
	return -1
}

// findStatic returns the static-table index (as a Dereference-style
// combined index, i.e. offset past the dynamic table) of (name, value)
// if an exact match exists, else the index of a name-only match, else -1,
// -1.
func (c *Context) findStatic(name, value []byte) (exact, nameOnly int) {
	exact, nameOnly = -1, -1
	for i, e := range staticTable {
		if string(e.name) != string(name) {
			continue
		}
		if nameOnly == -1 {
			nameOnly = len(c.table) + i
		}
		if string(e.value) == string(value) {
			exact = len(c.table) + i
			break
		}
	}
	return exact, nameOnly
}

// evictTail removes the oldest dynamic entry, dropping any refset entry
// that referenced it (spec.md §4.C add_to_table).
func (c *Context) evictTail() {
	if len(c.table) == 0 {
		return
	}
	last := len(c.table) - 1
	out := c.refset[:0]
	for _, r := range c.refset {
		if r.idx == last {
			if c.onEvict != nil {
				c.onEvict(r)
			}
			continue
		}
		out = append(out, r)
	}
	c.refset = out
	c.table = c.table[:last]
}

// AddToTable inserts (name, value) at the front of the dynamic table,
// evicting from the tail until it fits. If the entry alone exceeds
// limit, the table is cleared and the entry is not added. Every existing
// refset index is bumped by one to track the shift; eviction drops
// refset entries that pointed past the new table's end.
func (c *Context) AddToTable(name, value []byte) (newIndex int, ok bool) {
	e := dynEntry{name: append([]byte(nil), name...), value: append([]byte(nil), value...)}
	cost := e.size()

	if cost > c.limit {
		c.table = c.table[:0]
		c.refset = c.refset[:0]
		return 0, false
	}

	for c.TableSize()+cost > c.limit && len(c.table) > 0 {
		c.evictTail()
	}

	c.table = append(c.table, dynEntry{})
	copy(c.table[1:], c.table)
	c.table[0] = e

	for i := range c.refset {
		c.refset[i].idx++
	}

	return 0, true
}

// ChangeTableSize updates limit and evicts entries until the new bound
// is satisfied (spec.md §4.C changetablesize).
func (c *Context) ChangeTableSize(n int) {
	c.limit = n
	for c.TableSize() > c.limit && len(c.table) > 0 {
		c.evictTail()
	}
}

// Unmark clears every refset entry's mark (spec.md §4.C unmark, run at
// the start of each decode).
func (c *Context) Unmark() {
	for i := range c.refset {
		c.refset[i].mark = MarkNone
	}
}

// RefsetIndex returns the position of idx in the refset, or -1.
func (c *Context) RefsetIndex(idx int) int {
	for i, r := range c.refset {
		if r.idx == idx {
			return i
		}
	}
	return -1
}

// refsetMark returns the mark of the refset entry referencing idx, or
// MarkNone if idx is not currently in the refset (spec.md §4.D "always"
// strategy's none/common/emitted bookkeeping).
func (c *Context) refsetMark(idx int) RefMark {
	for _, r := range c.refset {
		if r.idx == idx {
			return r.mark
		}
	}
	return MarkNone
}

// setRefsetMark updates the mark of the refset entry referencing idx,
// if one exists.
func (c *Context) setRefsetMark(idx int, mark RefMark) {
	for i := range c.refset {
		if c.refset[i].idx == idx {
			c.refset[i].mark = mark
			return
		}
	}
}

// RefsetAdd pushes (idx, mark) to the refset.
func (c *Context) RefsetAdd(idx int, mark RefMark) {
	c.refset = append(c.refset, refEntry{idx: idx, mark: mark})
}

// RefsetRemoveAt removes the refset entry at position i.
func (c *Context) RefsetRemoveAt(i int) {
	c.refset = append(c.refset[:i], c.refset[i+1:]...)
}

// RefsetClear empties the refset (spec.md §4.C refsetempty).
func (c *Context) RefsetClear() {
	c.refset = c.refset[:0]
}

// RefsetEntries exposes the live refset for the encoder/decoder loops.
func (c *Context) RefsetEntries() []refEntry {
	return c.refset
}

// cmdKind tags the six representation operations a header block
// decodes into (spec.md §4.C process(cmd)).
type cmdKind uint8

const (
	cmdIndexed cmdKind = iota
	cmdIncremental
	cmdNoIndex
	cmdNeverIndexed
	cmdChangeTableSize
	cmdRefsetEmpty
)

// hpackCmd is one decoded (or about-to-be-encoded) representation.
// index is the zero-based combined table index; for incremental/
// noindex/neverindexed, index < 0 means "literal name follows" (name
// holds it directly) rather than a name reference.
type hpackCmd struct {
	kind      cmdKind
	index     int
	name      []byte
	value     []byte
	tableSize int
}

// Process applies cmd to the context's table and refset, returning the
// resulting (name, value) and whether it belongs in the decoded header
// list (spec.md §4.C). The same method drives both the decoder (fed
// from parsed wire representations) and the refset-differencing
// encoder (fed from representations about to be written), so the two
// sides of a connection can never disagree about table/refset state.
func (c *Context) Process(cmd hpackCmd) (name, value []byte, emit bool, err error) {
	switch cmd.kind {
	case cmdRefsetEmpty:
		c.RefsetClear()
		return nil, nil, false, nil

	case cmdChangeTableSize:
		c.ChangeTableSize(cmd.tableSize)
		return nil, nil, false, nil

	case cmdIndexed:
		if ri := c.RefsetIndex(cmd.index); ri >= 0 {
			c.RefsetRemoveAt(ri)
			return nil, nil, false, nil
		}
		name, value, isStatic, err := c.Dereference(cmd.index)
		if err != nil {
			return nil, nil, false, err
		}
		if isStatic {
			if _, ok := c.AddToTable(name, value); ok {
				c.RefsetAdd(0, MarkEmitted)
			}
		} else {
			c.RefsetAdd(cmd.index, MarkEmitted)
		}
		return name, value, true, nil

	case cmdIncremental, cmdNoIndex, cmdNeverIndexed:
		name := cmd.name
		if cmd.index >= 0 {
			n, _, _, err := c.Dereference(cmd.index)
			if err != nil {
				return nil, nil, false, err
			}
			name = n
		}
		value := cmd.value
		if cmd.kind == cmdIncremental {
			if _, ok := c.AddToTable(name, value); ok {
				c.RefsetAdd(0, MarkEmitted)
			}
		}
		return name, value, true, nil
	}

	return nil, nil, false, compressionError("unknown representation")
}

// findDynamicName returns the dynamic-table index of the first entry
// whose name matches, or -1.
func (c *Context) findDynamicName(name []byte) int {
	for i, e := range c.table {
		if string(e.name) == string(name) {
			return i
		}
	}
	return -1
}

// findStaticName returns the combined (Dereference-style) index of the
// first static-table entry whose name matches, or -1.
func (c *Context) findStaticName(name []byte) int {
	for i, e := range staticTable {
		if string(e.name) == string(name) {
			return len(c.table) + i
		}
	}
	return -1
}

// findExact returns the combined index of an entry matching both name
// and value, dynamic table first, or -1.
func (c *Context) findExact(name, value []byte) (int, bool) {
	if di := c.findDynamic(name, value); di >= 0 {
		return di, true
	}
	for i, e := range staticTable {
		if string(e.name) == string(name) && string(e.value) == string(value) {
			return len(c.table) + i, true
		}
	}
	return -1, false
}

// refsetHasValue reports whether some live refset entry dereferences to
// (name, value), returning its table index.
func (c *Context) refsetHasValue(name, value []byte) (int, bool) {
	for _, r := range c.refset {
		n, v, _, err := c.Dereference(r.idx)
		if err == nil && string(n) == string(name) && string(v) == string(value) {
			return r.idx, true
		}
	}
	return -1, false
}
