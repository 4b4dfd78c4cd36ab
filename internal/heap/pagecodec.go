package heap

import (
	"github.com/carloshernandez2/clj-db/internal/dberr"
	"github.com/carloshernandez2/clj-db/internal/page"
	"github.com/carloshernandez2/clj-db/internal/tuple"
)

// takeDataRows parses every row out of a data page's payload region
// by walking schema cyclically (STRING -> u8 len + bytes; INT/FLOAT ->
// 4 bytes), per spec.md §4.3 step 3. Each returned Row groups
// numColumns consecutive fields.
func takeDataRows(schema []tuple.Type, numColumns int, pageBytes []byte) ([]tuple.Row, error) {
	rowCount, freeOffset, err := page.DecodeFooter(pageBytes)
	if err != nil {
		return nil, err
	}
	payload := pageBytes[:freeOffset]

	var rows []tuple.Row
	var cur tuple.Row
	fieldPos := 0
	off := 0
	for off < len(payload) {
		typ := schema[fieldPos%numColumns]
		v, n, err := tuple.DecodeValue(typ, payload[off:])
		if err != nil {
			return nil, dberr.CorruptPage("parsing row field %d at offset %d: %v", fieldPos, off, err)
		}
		cur = append(cur, v)
		off += n
		fieldPos++
		if fieldPos%numColumns == 0 {
			rows = append(rows, cur)
			cur = nil
		}
	}
	if len(cur) != 0 {
		return nil, dberr.CorruptPage("payload ended mid-row: %d dangling fields", len(cur))
	}
	if int(rowCount) != len(rows) {
		return nil, dberr.CorruptPage("footer row_count %d does not match parsed row count %d", rowCount, len(rows))
	}
	return rows, nil
}

// encodeRow serializes every field of row in order.
func encodeRow(row tuple.Row) ([]byte, error) {
	var out []byte
	for _, v := range row {
		b, err := v.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// rowCost is the byte cost a row adds against a page's free-byte
// budget: its encoded size plus the per-row slot reservation.
func rowCost(row tuple.Row) int {
	size := 0
	for _, v := range row {
		size += v.Size()
	}
	return size + page.SlotSize
}

// buildPage concatenates existing and new rows' encoded fields,
// zero-pads the front region, and emits the footer. The result is
// always exactly page.PageSize bytes.
func buildPage(existing, newRows []tuple.Row) ([]byte, error) {
	out := make([]byte, 0, page.PageSize)
	rowCount := 0
	for _, r := range existing {
		b, err := encodeRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		rowCount++
	}
	for _, r := range newRows {
		b, err := encodeRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		rowCount++
	}

	freeOffset := len(out)
	if freeOffset > page.PageSize-page.FooterSize {
		return nil, dberr.CorruptPage("packing invariant violated: payload %d bytes exceeds capacity %d", freeOffset, page.PageSize-page.FooterSize)
	}

	full := make([]byte, page.PageSize)
	copy(full, out)
	copy(full[page.PageSize-page.FooterSize:], page.EncodeFooter(uint16(rowCount), uint16(freeOffset)))
	return full, nil
}
