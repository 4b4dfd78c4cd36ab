package page

import "github.com/carloshernandez2/clj-db/internal/dberr"

func errFootPageSize(got int) error {
	return dberr.CorruptPage("expected a full %d-byte page, got %d bytes", PageSize, got)
}
