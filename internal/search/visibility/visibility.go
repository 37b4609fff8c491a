// Package visibility decides which editorial statuses a request may see.
package visibility

import (
	"github.com/MartinEBravo/duech-go/internal/search/model"
	"github.com/MartinEBravo/duech-go/internal/search/query"
)

// Context is the per-request visibility input, derived from the session
// collaborator and the explicit editor-mode override. Never persisted.
type Context struct {
	EditorMode bool
	Role       string
}

// Authenticated reports whether the caller carries any editorial role.
func (c Context) Authenticated() bool {
	return c.Role != ""
}

// StatusScope resolves the effective status scope for list search.
//
// Editor mode is the superset view: every status is eligible. Outside editor
// mode only published entries are. An explicit status filter is respected,
// not overridden, but it cannot widen eligibility: filtering on a status the
// caller may not see yields an empty scope, which matches nothing.
func StatusScope(c Context, explicit query.Status) []model.Status {
	eligible := []model.Status{model.StatusPublished}
	if c.EditorMode {
		eligible = model.Statuses()
	}

	if !explicit.Set() {
		return eligible
	}

	want := model.Status(explicit.Value())
	for _, s := range eligible {
		if s == want {
			return []model.Status{s}
		}
	}
	return nil
}

// PreviewScope resolves the status scope for a single-lemma detail lookup.
// The preview carve-out is narrower than editor mode: any authenticated role
// may see drafts of one specific entry, list search stays unaffected.
func PreviewScope(c Context, preview bool) []model.Status {
	if c.EditorMode || (preview && c.Authenticated()) {
		return model.Statuses()
	}
	return []model.Status{model.StatusPublished}
}
