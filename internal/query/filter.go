// Package query holds the two pure pieces of the listing pipeline: the
// filter compiler, which turns optional query inputs into SQL clauses, and
// the cursor paginator helpers. Repositories execute the result; nothing
// here touches the database.
package query

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// Clause is one WHERE fragment with its bind arguments.
type Clause struct {
	Expr string
	Args []any
}

// Predicate is the compiled filter consumed by the paginating repositories.
type Predicate struct {
	clauses  []Clause
	joinSlug bool
}

func (p Predicate) Clauses() []Clause { return p.clauses }

// JoinsCommunity reports whether the query must join communities to
// resolve a slug filter.
func (p Predicate) JoinsCommunity() bool { return p.joinSlug }

// Scope applies the predicate to a gorm query.
func (p Predicate) Scope(db *gorm.DB) *gorm.DB {
	if p.joinSlug {
		db = db.Joins("JOIN communities ON communities.id = posts.community_id")
	}
	for _, c := range p.clauses {
		db = db.Where(c.Expr, c.Args...)
	}
	return db
}

var (
	numericID = regexp.MustCompile(`^[0-9]+$`)
	extraPath = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// PostFilter collects the optional listing inputs. Community may be a
// numeric identifier or a slug; the shape decides the branch at compile
// time. The extra bag exposes exactly one filter slot: SetExtra overwrites
// any previously set path, so of two nested filters only the last applied
// takes effect. That matches the behavior this service replaces; callers
// rely on the fixed apply order in the handlers.
type PostFilter struct {
	Community string
	Type      string
	Search    string

	extraPath  string
	extraValue string
}

// SetExtra targets a path inside the post's extra document. Overwrites any
// prior SetExtra call.
func (f *PostFilter) SetExtra(path, value string) {
	if path == "" || value == "" || !extraPath.MatchString(path) {
		return
	}
	f.extraPath = path
	f.extraValue = value
}

// Compile builds the predicate. Absent inputs simply omit their clause;
// there are no error conditions.
func (f *PostFilter) Compile() Predicate {
	var p Predicate

	if f.Community != "" {
		if numericID.MatchString(f.Community) {
			p.clauses = append(p.clauses, Clause{Expr: "posts.community_id = ?", Args: []any{f.Community}})
		} else {
			p.joinSlug = true
			p.clauses = append(p.clauses, Clause{Expr: "communities.slug = ?", Args: []any{f.Community}})
		}
	}

	if f.Type != "" {
		p.clauses = append(p.clauses, Clause{Expr: "posts.type = ?", Args: []any{f.Type}})
	}

	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		p.clauses = append(p.clauses, Clause{
			Expr: "(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?)",
			Args: []any{needle, needle},
		})
	}

	if f.extraPath != "" {
		p.clauses = append(p.clauses, Clause{
			Expr: "JSON_UNQUOTE(JSON_EXTRACT(posts.extra, ?)) = ?",
			Args: []any{"$." + f.extraPath, f.extraValue},
		})
	}

	return p
}

// CommunityFilter is the listing filter for communities themselves.
type CommunityFilter struct {
	Search     string
	PublicOnly bool
}

func (f *CommunityFilter) Compile() Predicate {
	var p Predicate
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		p.clauses = append(p.clauses, Clause{
			Expr: "(LOWER(communities.name) LIKE ? OR LOWER(communities.slug) LIKE ?)",
			Args: []any{needle, needle},
		})
	}
	if f.PublicOnly {
		p.clauses = append(p.clauses, Clause{Expr: "communities.is_public = ?", Args: []any{true}})
	}
	return p
}
