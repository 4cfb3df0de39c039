package terminal

// OpKind identifies a decoded draw operation
type OpKind uint8

const (
	OpClear OpKind = iota // ESC[2J
	OpMove                // ESC[row;colH, 1-indexed
	OpText                // printable run at the current cursor
)

// Op is one decoded operation. Text aliases the input slice
type Op struct {
	Kind OpKind
	Row  int
	Col  int
	Text []byte
}

// Decode walks the escape-sequence stream the renderer produces and calls
// fn for each clear, move and text run. Sequences outside that subset are
// skipped, as is a truncated sequence at the end of p
func Decode(p []byte, fn func(Op)) {
	i := 0
	for i < len(p) {
		if p[i] != 0x1b {
			start := i
			for i < len(p) && p[i] != 0x1b {
				i++
			}
			fn(Op{Kind: OpText, Text: p[start:i]})
			continue
		}

		if i+1 >= len(p) {
			return
		}
		if p[i+1] != '[' {
			// Two-byte escape (RIS and friends)
			i += 2
			continue
		}

		n, op, ok := parseCSI(p[i:])
		if n == 0 {
			return
		}
		i += n
		if ok {
			fn(op)
		}
	}
}

// parseCSI parses ESC [ params final starting at data[0]
// Returns consumed length (0 if incomplete) and the op when recognised
func parseCSI(data []byte) (int, Op, bool) {
	end := 2
	for end < len(data) {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 {
			// Malformed, drop the introducer only
			return end, Op{}, false
		}
		end++
	}
	if end >= len(data) {
		return 0, Op{}, false
	}

	params := data[2:end]
	final := data[end]
	consumed := end + 1

	switch final {
	case 'J':
		if len(params) == 1 && params[0] == '2' {
			return consumed, Op{Kind: OpClear}, true
		}
	case 'H':
		row, col, ok := parseRowCol(params)
		if ok {
			return consumed, Op{Kind: OpMove, Row: row, Col: col}, true
		}
	}
	return consumed, Op{}, false
}

// parseRowCol parses "row;col" with omitted values defaulting to 1
func parseRowCol(params []byte) (row, col int, ok bool) {
	row, col = 1, 1
	field := 0
	val, seen := 0, false

	commit := func() {
		if seen {
			if field == 0 {
				row = val
			} else {
				col = val
			}
		}
		val, seen = 0, false
	}

	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			seen = true
		case b == ';':
			commit()
			field++
			if field > 1 {
				return 0, 0, false
			}
		default:
			// Private markers ('?') and the like are not cursor moves
			return 0, 0, false
		}
	}
	commit()

	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	return row, col, true
}
