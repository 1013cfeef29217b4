package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func baseProfile() *Profile {
	return &Profile{
		ID:        "u1",
		Username:  "alice123",
		FirstName: "Alice",
		Bio:       "old bio",
		Privacy: PrivacySettings{
			HideSubscriptions: false,
			PreventCopying:    true,
			Comments: CommentSettings{
				Global:  true,
				PerBook: map[string]bool{"b1": false},
			},
		},
	}
}

func TestApply_PartialFields(t *testing.T) {
	p := baseProfile()

	patch := &ProfilePatch{Bio: Ptr("hello #tag")}
	patch.Apply(p)

	assert.Equal(t, "hello #tag", p.Bio)
	assert.Equal(t, "Alice", p.FirstName, "omitted fields stay untouched")
}

func TestApply_EmptyStringOverwrites(t *testing.T) {
	p := baseProfile()

	patch := &ProfilePatch{FirstName: Ptr("")}
	patch.Apply(p)

	assert.Equal(t, "", p.FirstName)
}

func TestApply_NestedPrivacyMergesIndependently(t *testing.T) {
	p := baseProfile()

	// updating HideSubscriptions must not clobber comment settings
	patch := &ProfilePatch{Privacy: &PrivacyPatch{HideSubscriptions: Ptr(true)}}
	patch.Apply(p)

	assert.True(t, p.Privacy.HideSubscriptions)
	assert.True(t, p.Privacy.PreventCopying)
	assert.True(t, p.Privacy.Comments.Global)
	assert.Equal(t, map[string]bool{"b1": false}, p.Privacy.Comments.PerBook)
}

func TestApply_PerBookMergesByKey(t *testing.T) {
	p := baseProfile()

	patch := &ProfilePatch{Privacy: &PrivacyPatch{
		Comments: &CommentsPatch{PerBook: map[string]bool{"b2": true}},
	}}
	patch.Apply(p)

	assert.Equal(t, map[string]bool{"b1": false, "b2": true}, p.Privacy.Comments.PerBook)
	assert.True(t, p.Privacy.Comments.Global, "global untouched by per-book patch")
}

func TestApply_PerBookIntoNilMap(t *testing.T) {
	p := &Profile{ID: "u1"}

	patch := &ProfilePatch{Privacy: &PrivacyPatch{
		Comments: &CommentsPatch{PerBook: map[string]bool{"b1": false}},
	}}
	patch.Apply(p)

	assert.Equal(t, map[string]bool{"b1": false}, p.Privacy.Comments.PerBook)
}

func TestApply_NilPatchIsNoop(t *testing.T) {
	p := baseProfile()
	want := p.Clone()

	var patch *ProfilePatch
	patch.Apply(p)

	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("profile changed by nil patch (-want +got):\n%s", diff)
	}
}
