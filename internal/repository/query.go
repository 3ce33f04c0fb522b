package repository

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageBounds clamps paging input and returns the limit and offset.
func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// conditions accumulates positional WHERE fragments.
type conditions struct {
	clauses []string
	args    []interface{}
}

// add appends a clause. Each %s in format is replaced by the next placeholder
// bound to the matching value.
func (c *conditions) add(format string, values ...interface{}) {
	placeholders := make([]interface{}, len(values))
	for i, v := range values {
		c.args = append(c.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(c.args))
	}
	c.clauses = append(c.clauses, fmt.Sprintf(format, placeholders...))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}
