package h2c

// HuffmanMode selects when string literals are Huffman-coded.
type HuffmanMode uint8

const (
	HuffmanShorter HuffmanMode = iota
	HuffmanAlways
	HuffmanNever
)

// IndexMode selects which headers may be added to, or referenced
// through, the dynamic/static tables (spec.md §6).
type IndexMode uint8

const (
	IndexAll IndexMode = iota
	IndexHeader
	IndexStatic
	IndexNever
)

// RefsetMode selects the reference-set differencing strategy (spec.md
// §4.D, §6).
type RefsetMode uint8

const (
	RefsetShorter RefsetMode = iota
	RefsetAlways
	RefsetNever
)

// Options bundles one HPACK encoding configuration. The five
// predefined bundles below (spec.md §6) cover the combinations worth
// naming; ad-hoc Options values work too.
type Options struct {
	TableSize int
	Huffman   HuffmanMode
	Index     IndexMode
	Refset    RefsetMode
}

func NaiveOptions() Options {
	return Options{TableSize: int(DefaultHeaderTableSize), Huffman: HuffmanNever, Index: IndexNever, Refset: RefsetNever}
}

func LinearOptions() Options {
	return Options{TableSize: int(DefaultHeaderTableSize), Huffman: HuffmanNever, Index: IndexAll, Refset: RefsetNever}
}

func StaticOptions() Options {
	return Options{TableSize: int(DefaultHeaderTableSize), Huffman: HuffmanNever, Index: IndexStatic, Refset: RefsetNever}
}

func DiffOptions() Options {
	return Options{TableSize: int(DefaultHeaderTableSize), Huffman: HuffmanNever, Index: IndexAll, Refset: RefsetAlways}
}

func ShorterOptions() Options {
	return Options{TableSize: int(DefaultHeaderTableSize), Huffman: HuffmanNever, Index: IndexAll, Refset: RefsetShorter}
}

// WithHuffman returns a copy of o with Huffman coding forced on, giving
// the "*H" variant of a bundle (spec.md §6).
func (o Options) WithHuffman() Options {
	o.Huffman = HuffmanAlways
	return o
}

// --- integer representation (spec.md §4.D) ---

func writeInt(dst []byte, prefixBits uint, topBits byte, value uint64) []byte {
	max := uint64(1)<<prefixBits - 1
	if value < max {
		return append(dst, topBits|byte(value))
	}
	dst = append(dst, topBits|byte(max))
	value -= max
	for value >= 128 {
		dst = append(dst, byte(value&0x7f)|0x80)
		value >>= 7
	}
	return append(dst, byte(value))
}

func readInt(src []byte, prefixBits uint) (value uint64, consumed int, err error) {
	if len(src) == 0 {
		return 0, 0, ErrMissingBytes
	}
	max := uint64(1)<<prefixBits - 1
	value = uint64(src[0]) & max
	if value < max {
		return value, 1, nil
	}
	m := uint(0)
	i := 1
	for {
		if i >= len(src) {
			return 0, 0, ErrMissingBytes
		}
		b := src[i]
		value += uint64(b&0x7f) << m
		i++
		m += 7
		if b&0x80 == 0 {
			break
		}
		if m > 63 {
			return 0, 0, ErrBitOverflow
		}
	}
	return value, i, nil
}

// --- string representation (spec.md §4.D) ---

func useHuffman(mode HuffmanMode, s []byte) bool {
	switch mode {
	case HuffmanAlways:
		return true
	case HuffmanNever:
		return false
	default:
		return huffmanEncodedLen(s) < len(s)
	}
}

func writeString(dst []byte, s []byte, mode HuffmanMode) []byte {
	if useHuffman(mode, s) {
		enc := huffmanEncode(nil, s)
		dst = writeInt(dst, 7, 0x80, uint64(len(enc)))
		return append(dst, enc...)
	}
	dst = writeInt(dst, 7, 0x00, uint64(len(s)))
	return append(dst, s...)
}

func readString(src []byte) (value []byte, consumed int, err error) {
	if len(src) == 0 {
		return nil, 0, ErrMissingBytes
	}
	huff := src[0]&0x80 != 0
	length, n, err := readInt(src, 7)
	if err != nil {
		return nil, 0, err
	}
	pos := n
	if pos+int(length) > len(src) {
		return nil, 0, ErrMissingBytes
	}
	raw := src[pos : pos+int(length)]
	pos += int(length)
	if !huff {
		return append([]byte(nil), raw...), pos, nil
	}
	dec, err := huffmanDecode(nil, raw)
	if err != nil {
		return nil, 0, err
	}
	return dec, pos, nil
}

// --- representation byte layouts (spec.md §4.D) ---

func writeIndexed(dst []byte, idx int) []byte {
	return writeInt(dst, 7, 0x80, uint64(idx+1))
}

func writeNameValue(dst []byte, prefixBits uint, topBits byte, nameIdx int, name, value []byte, huff HuffmanMode) []byte {
	wireIdx := 0
	if nameIdx >= 0 {
		wireIdx = nameIdx + 1
	}
	dst = writeInt(dst, prefixBits, topBits, uint64(wireIdx))
	if nameIdx < 0 {
		dst = writeString(dst, name, huff)
	}
	return writeString(dst, value, huff)
}

func writeIncremental(dst []byte, nameIdx int, name, value []byte, huff HuffmanMode) []byte {
	return writeNameValue(dst, 6, 0x40, nameIdx, name, value, huff)
}

func writeNoIndex(dst []byte, nameIdx int, name, value []byte, huff HuffmanMode) []byte {
	return writeNameValue(dst, 4, 0x00, nameIdx, name, value, huff)
}

func writeNeverIndexed(dst []byte, nameIdx int, name, value []byte, huff HuffmanMode) []byte {
	return writeNameValue(dst, 4, 0x10, nameIdx, name, value, huff)
}

func writeChangeTableSize(dst []byte, n int) []byte {
	return writeInt(dst, 4, 0x20, uint64(n))
}

func writeRefsetEmpty(dst []byte) []byte {
	return append(dst, 0x30)
}

// parseRepresentation reads one representation from the front of src.
func parseRepresentation(src []byte) (hpackCmd, int, error) {
	if len(src) == 0 {
		return hpackCmd{}, 0, ErrMissingBytes
	}
	b := src[0]

	switch {
	case b&0x80 != 0:
		v, n, err := readInt(src, 7)
		if err != nil {
			return hpackCmd{}, 0, err
		}
		if v == 0 {
			return hpackCmd{}, 0, compressionError("indexed representation with index 0")
		}
		return hpackCmd{kind: cmdIndexed, index: int(v) - 1}, n, nil

	case b == 0x30:
		return hpackCmd{kind: cmdRefsetEmpty}, 1, nil

	case b&0xC0 == 0x40:
		return parseNameValue(src, 6, cmdIncremental)

	case b&0xF0 == 0x20:
		v, n, err := readInt(src, 4)
		if err != nil {
			return hpackCmd{}, 0, err
		}
		return hpackCmd{kind: cmdChangeTableSize, tableSize: int(v)}, n, nil

	case b&0xF0 == 0x10:
		return parseNameValue(src, 4, cmdNeverIndexed)

	default: // b&0xF0 == 0x00
		return parseNameValue(src, 4, cmdNoIndex)
	}
}

func parseNameValue(src []byte, prefixBits uint, kind cmdKind) (hpackCmd, int, error) {
	wireIdx, n, err := readInt(src, prefixBits)
	if err != nil {
		return hpackCmd{}, 0, err
	}
	pos := n
	idx := -1
	var name []byte
	if wireIdx == 0 {
		nm, n2, err := readString(src[pos:])
		if err != nil {
			return hpackCmd{}, 0, err
		}
		name = nm
		pos += n2
	} else {
		idx = int(wireIdx) - 1
	}
	value, n3, err := readString(src[pos:])
	if err != nil {
		return hpackCmd{}, 0, err
	}
	pos += n3
	return hpackCmd{kind: kind, index: idx, name: name, value: value}, pos, nil
}

// --- decoder ---

// Decode turns a header block back into a header list, applying it
// against ctx (spec.md §4.C/§4.D). Returned HeaderFields are acquired
// from the pool; the caller releases them.
func Decode(ctx *Context, src []byte) ([]*HeaderField, error) {
	ctx.Unmark()

	var headers []*HeaderField
	pos := 0
	for pos < len(src) {
		cmd, n, err := parseRepresentation(src[pos:])
		if err != nil {
			return nil, err
		}
		pos += n

		name, value, emit, err := ctx.Process(cmd)
		if err != nil {
			return nil, err
		}
		if !emit {
			continue
		}
		hf := AcquireHeaderField()
		hf.SetNameBytes(name)
		hf.SetValueBytes(value)
		if cmd.kind == cmdNeverIndexed {
			hf.SetSensitive(true)
		}
		headers = append(headers, hf)
	}

	for _, r := range ctx.RefsetEntries() {
		if r.mark != MarkNone {
			continue
		}
		name, value, _, err := ctx.Dereference(r.idx)
		if err != nil {
			return nil, err
		}
		hf := AcquireHeaderField()
		hf.SetNameBytes(name)
		hf.SetValueBytes(value)
		headers = append(headers, hf)
	}

	return headers, nil
}

// --- encoder ---

// Encode serializes headers as one HPACK header block, mutating ctx
// to match what a correct decoder will end up holding (spec.md §4.D).
func Encode(ctx *Context, opts Options, headers []*HeaderField) []byte {
	if ctx.Limit() != opts.TableSize {
		dst := writeChangeTableSize(nil, opts.TableSize)
		ctx.ChangeTableSize(opts.TableSize)
		return append(dst, encodeBody(ctx, opts, headers)...)
	}
	return encodeBody(ctx, opts, headers)
}

func encodeBody(ctx *Context, opts Options, headers []*HeaderField) []byte {
	switch opts.Refset {
	case RefsetNever:
		return encodeLiteral(ctx, opts, headers)
	case RefsetAlways:
		return encodeDiff(ctx, opts, headers)
	default: // RefsetShorter: run both on scratch copies, keep the smaller
		cloneA := ctx.Clone()
		a := encodeLiteral(cloneA, opts, headers)
		cloneB := ctx.Clone()
		b := encodeDiff(cloneB, opts, headers)
		if len(a) <= len(b) {
			*ctx = *cloneA
			return a
		}
		*ctx = *cloneB
		return b
	}
}

func lookupNameIdx(ctx *Context, opts Options, name []byte) int {
	switch opts.Index {
	case IndexNever:
		return -1
	case IndexStatic:
		return ctx.findStaticName(name)
	default: // IndexAll, IndexHeader
		if di := ctx.findDynamicName(name); di >= 0 {
			return di
		}
		return ctx.findStaticName(name)
	}
}

// encodeLiteral implements the non-refset bundles (NAIVE/LINEAR/STATIC):
// a non-empty reference set is first cleared with a refsetempty
// representation, then every header is written as a literal
// representation, optionally referencing an existing table entry by name
// only. It never emits the "indexed" representation; incremental literals
// go through Context.Process so the encoder's refset matches the decoder's.
func encodeLiteral(ctx *Context, opts Options, headers []*HeaderField) []byte {
	var dst []byte
	if len(ctx.RefsetEntries()) > 0 {
		ctx.Process(hpackCmd{kind: cmdRefsetEmpty})
		dst = writeRefsetEmpty(dst)
	}
	for _, hf := range headers {
		name, value := hf.NameBytes(), hf.ValueBytes()
		nameIdx := lookupNameIdx(ctx, opts, name)

		switch {
		case hf.Sensitive():
			dst = writeNeverIndexed(dst, nameIdx, name, value, opts.Huffman)
		case opts.Index == IndexAll || (opts.Index == IndexHeader && !hf.IsPseudo()):
			ctx.Process(hpackCmd{kind: cmdIncremental, index: nameIdx, name: name, value: value})
			dst = writeIncremental(dst, nameIdx, name, value, opts.Huffman)
		default:
			dst = writeNoIndex(dst, nameIdx, name, value, opts.Huffman)
		}
	}
	return dst
}

// encodeDiff implements the "always" refset-differencing strategy
// (DIFF/SHORTER bundles), Tatsuhiro's algorithm per spec.md §4.D: a
// header already present in the refset is remarked/emitted according
// to its current mark (none -> common, deferring emission; common ->
// emit 4 indexed, the deferred pair plus a new pair; emitted -> emit 2
// indexed), a header found in the table but not yet referenced this
// block is brought in with one indexed representation, and anything
// else is written as a literal. Every mutation goes through
// Context.Process so the encoder's view of table/refset state never
// diverges from what Decode will compute; marks reset at the start of
// each call exactly as Decode's own Unmark does.
func encodeDiff(ctx *Context, opts Options, headers []*HeaderField) []byte {
	var dst []byte
	ctx.Unmark()

	// A table eviction mid-block can drop an entry still marked common
	// (seen exactly once so far): spec.md §4.D requires it be
	// resurrected with two indexed representations first so the
	// decoder's own eviction doesn't silently lose that occurrence.
	ctx.onEvict = func(r refEntry) {
		if r.mark == MarkCommon {
			dst = writeIndexed(dst, r.idx)
			dst = writeIndexed(dst, r.idx)
		}
	}
	defer func() { ctx.onEvict = nil }()

	toggleOffOn := func(idx int) {
		ctx.Process(hpackCmd{kind: cmdIndexed, index: idx})
		dst = writeIndexed(dst, idx)
		ctx.Process(hpackCmd{kind: cmdIndexed, index: idx})
		dst = writeIndexed(dst, idx)
	}

	for _, hf := range headers {
		name, value := hf.NameBytes(), hf.ValueBytes()

		if hf.Sensitive() {
			nameIdx := lookupNameIdx(ctx, opts, name)
			ctx.Process(hpackCmd{kind: cmdNeverIndexed, index: nameIdx, name: name, value: value})
			dst = writeNeverIndexed(dst, nameIdx, name, value, opts.Huffman)
			continue
		}

		if idx, ok := ctx.refsetHasValue(name, value); ok {
			switch ctx.refsetMark(idx) {
			case MarkNone:
				ctx.setRefsetMark(idx, MarkCommon)
			case MarkCommon:
				toggleOffOn(idx)
				toggleOffOn(idx)
				ctx.setRefsetMark(idx, MarkEmitted)
			case MarkEmitted:
				toggleOffOn(idx)
			}
			continue
		}

		if eidx, ok := ctx.findExact(name, value); ok {
			ctx.Process(hpackCmd{kind: cmdIndexed, index: eidx})
			dst = writeIndexed(dst, eidx)
			continue
		}

		nameIdx := lookupNameIdx(ctx, opts, name)
		if opts.Index == IndexNever {
			ctx.Process(hpackCmd{kind: cmdNoIndex, index: nameIdx, name: name, value: value})
			dst = writeNoIndex(dst, nameIdx, name, value, opts.Huffman)
		} else {
			ctx.Process(hpackCmd{kind: cmdIncremental, index: nameIdx, name: name, value: value})
			dst = writeIncremental(dst, nameIdx, name, value, opts.Huffman)
		}
	}

	// Anything left untouched (mark still none) is stale: carried over
	// from a prior block but absent from this one, so peel it off.
	for _, r := range append([]refEntry(nil), ctx.RefsetEntries()...) {
		if r.mark == MarkNone {
			ctx.Process(hpackCmd{kind: cmdIndexed, index: r.idx})
			dst = writeIndexed(dst, r.idx)
		}
	}

	return dst
}
