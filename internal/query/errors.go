package query

import "github.com/carloshernandez2/clj-db/internal/dberr"

func missingStep(key string) error {
	return dberr.MissingStep(key)
}
