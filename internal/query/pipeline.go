// Package query provides a typed, ordered pipeline of read stages compiled
// onto a gorm query. Listings assemble stages with explicit conditionals and
// every stage is validated before anything touches the database.
package query

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Stage is one declarative step of a read pipeline.
type Stage interface {
	validate() error
	apply(db *gorm.DB) *gorm.DB
}

// Match filters on equality against a single column.
type Match struct {
	Column string
	Value  any
}

func (m Match) validate() error {
	if !columnPattern.MatchString(m.Column) {
		return fmt.Errorf("match: invalid column %q", m.Column)
	}
	return nil
}

func (m Match) apply(db *gorm.DB) *gorm.DB {
	return db.Where(fmt.Sprintf("%s = ?", m.Column), m.Value)
}

// Search is a case-insensitive substring match over one or more text columns.
type Search struct {
	Columns []string
	Term    string
}

func (s Search) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("search: no columns")
	}
	for _, c := range s.Columns {
		if !columnPattern.MatchString(c) {
			return fmt.Errorf("search: invalid column %q", c)
		}
	}
	if strings.TrimSpace(s.Term) == "" {
		return fmt.Errorf("search: empty term")
	}
	return nil
}

func (s Search) apply(db *gorm.DB) *gorm.DB {
	clauses := make([]string, len(s.Columns))
	args := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		clauses[i] = fmt.Sprintf("%s ILIKE ?", c)
		args[i] = "%" + s.Term + "%"
	}
	return db.Where(strings.Join(clauses, " OR "), args...)
}

// Sort orders by a single column. Callers resolve request-facing sort keys to
// columns through their own allowlist before building the stage.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) validate() error {
	if !columnPattern.MatchString(s.Column) {
		return fmt.Errorf("sort: invalid column %q", s.Column)
	}
	return nil
}

func (s Sort) apply(db *gorm.DB) *gorm.DB {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Column, dir))
}

// Paginate slices the result into 1-based pages. At most one per pipeline,
// and it must come last.
type Paginate struct {
	Page  int
	Limit int
}

func (p Paginate) validate() error {
	if p.Page < 1 {
		return fmt.Errorf("paginate: page must be >= 1")
	}
	if p.Limit < 1 {
		return fmt.Errorf("paginate: limit must be >= 1")
	}
	return nil
}

func (p Paginate) apply(db *gorm.DB) *gorm.DB {
	return db.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
}

// PageInfo describes the page a pipeline produced.
type PageInfo struct {
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Add(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Validate checks every stage and the pipeline shape before execution.
func (p *Pipeline) Validate() error {
	for i, s := range p.stages {
		if err := s.validate(); err != nil {
			return err
		}
		if _, ok := s.(Paginate); ok && i != len(p.stages)-1 {
			return fmt.Errorf("paginate: must be the final stage")
		}
	}
	return nil
}

// Run executes the pipeline against db, filling dest with the page of rows.
// The total count is taken after filter stages and before pagination, so an
// off-the-end page yields an empty dest with an accurate PageInfo.
func (p *Pipeline) Run(db *gorm.DB, dest any) (*PageInfo, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	filtered := db
	var sort *Sort
	var page *Paginate
	for _, s := range p.stages {
		switch st := s.(type) {
		case Sort:
			st2 := st
			sort = &st2
		case Paginate:
			st2 := st
			page = &st2
		default:
			filtered = s.apply(filtered)
		}
	}

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	result := filtered.Session(&gorm.Session{})
	if sort != nil {
		result = sort.apply(result)
	}
	if page != nil {
		result = page.apply(result)
	}
	if err := result.Find(dest).Error; err != nil {
		return nil, err
	}

	info := &PageInfo{TotalDocs: total}
	if page != nil {
		info.Limit = page.Limit
		info.Page = page.Page
		info.TotalPages = int(math.Ceil(float64(total) / float64(page.Limit)))
		info.HasNextPage = page.Page < info.TotalPages
		info.HasPrevPage = page.Page > 1 && total > 0
	} else {
		info.Limit = int(total)
		info.Page = 1
		if total > 0 {
			info.TotalPages = 1
		}
	}
	return info, nil
}
