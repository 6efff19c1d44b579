package config

// Document is the ordered sequence of Sections produced by parsing one or
// more configuration streams, partitioned into global, ignored and module
// categories (spec.md §3 Configuration Document). Category membership is
// fixed at construction time from the caller-supplied name sets.
type Document struct {
	modules []*Section
	global  *Section
}

// NewDocument classifies the sections read by a Reader. globalNames are
// section names merged into the single GlobalConfiguration (conventionally
// just the run header, e.g. "Allpix"/"Pixelsim"); ignoredNames are dropped
// entirely. Every other section is retained, in order, as a module
// (pipeline stage) section.
func NewDocument(sections []*Section, globalNames, ignoredNames []string) *Document {
	globalSet := toSet(globalNames)
	ignoredSet := toSet(ignoredNames)

	doc := &Document{global: NewSection("", "")}
	firstGlobal := true
	for _, sec := range sections {
		switch {
		case globalSet[sec.Name()]:
			if firstGlobal {
				// The first global section's keys win; merge fills gaps
				// from every subsequent global section (spec.md §3).
				doc.global = NewSection(sec.Name(), sec.Path())
				doc.global.Merge(sec)
				firstGlobal = false
			} else {
				doc.global.Merge(sec)
			}
		case ignoredSet[sec.Name()]:
			continue
		default:
			doc.modules = append(doc.modules, sec)
		}
	}
	return doc
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// Global returns the single merged GlobalConfiguration section.
func (d *Document) Global() *Section { return d.global }

// ModuleSections returns the non-global, non-ignored sections in
// declaration order — the order module instantiation follows (spec.md
// §4.5.2).
func (d *Document) ModuleSections() []*Section {
	out := make([]*Section, len(d.modules))
	copy(out, d.modules)
	return out
}
