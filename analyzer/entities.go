package analyzer

import (
	"strings"
	"unicode"
)

// EntityLists drive entity extraction. Nothing is recognised without them:
// a nil Places list yields no place entities.
type EntityLists struct {
	// PersonTitles precede person names, e.g. "Dr." or "Mrs.".
	PersonTitles []string
	// OrgSuffixes end organisation names, e.g. "Inc." or "Ltd.".
	OrgSuffixes []string
	// Places are known place names, matched case-insensitively.
	Places []string
}

// DefaultEntityLists returns common English person titles and company
// suffixes. It carries no place names.
func DefaultEntityLists() EntityLists {
	return EntityLists{
		PersonTitles: []string{"Mr.", "Mrs.", "Ms.", "Dr.", "Prof."},
		OrgSuffixes:  []string{"Inc.", "Corp.", "Ltd.", "LLC", "GmbH", "Co."},
	}
}

// ExtractEntities finds runs of capitalized words. A run led by a person
// title is a person; a run ending in an organisation suffix, or any run of
// two or more words, is an organisation; a run naming a listed place is a
// place. Leading stop-words are dropped from each run and each entity is
// reported once, in order of first appearance.
func (a *Analyzer) ExtractEntities(text string, lists EntityLists) Entities {
	ex := entityExtractor{lists: lists, stopWords: a.stopWords}
	var run []string
	for _, raw := range strings.Fields(text) {
		word := strings.TrimLeft(raw, `"'([{`)
		bare := strings.TrimRight(word, `"')]}.,;:!?`)
		if !isTitleWord(bare) && !matchesAny(bare, lists.OrgSuffixes) {
			ex.flush(run)
			run = run[:0]
			continue
		}
		run = append(run, bare)

		// trailing punctuation ends the run unless it abbreviates a title
		if bare != word && !(strings.HasSuffix(word, ".") && matchesAny(bare, lists.PersonTitles)) {
			ex.flush(run)
			run = run[:0]
		}
	}
	ex.flush(run)
	return ex.result
}

type entityExtractor struct {
	lists     EntityLists
	stopWords StopWords
	seen      map[string]struct{}
	result    Entities
}

func (e *entityExtractor) flush(run []string) {
	for len(run) > 0 && e.stopWords.Contains(run[0]) {
		run = run[1:]
	}
	if len(run) == 0 {
		return
	}

	name := strings.Join(run, " ")
	switch {
	case matchesAny(run[0], e.lists.PersonTitles):
		if len(run) > 1 {
			e.add(&e.result.Persons, "person", strings.Join(run[1:], " "))
		}
	case matchesAny(name, e.lists.Places):
		e.add(&e.result.Places, "place", name)
	case matchesAny(run[len(run)-1], e.lists.OrgSuffixes) || len(run) > 1:
		e.add(&e.result.Organizations, "org", name)
	}
}

func (e *entityExtractor) add(list *[]string, kind, name string) {
	if e.seen == nil {
		e.seen = make(map[string]struct{})
	}
	key := kind + "\x00" + name
	if _, ok := e.seen[key]; ok {
		return
	}
	e.seen[key] = struct{}{}
	*list = append(*list, name)
}

// isTitleWord reports whether w starts with an upper-case letter followed
// by at least one more rune, none of which is upper-case.
func isTitleWord(w string) bool {
	runes := []rune(w)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// matchesAny compares word with each candidate ignoring case and a trailing period.
func matchesAny(word string, candidates []string) bool {
	word = strings.TrimSuffix(word, ".")
	for _, c := range candidates {
		if strings.EqualFold(word, strings.TrimSuffix(c, ".")) {
			return true
		}
	}
	return false
}
