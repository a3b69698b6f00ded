package interval

// Relation classifies how a subject interval sits relative to a mapping's
// source interval.
type Relation int

const (
	// Disjoint: no shared point, or either interval is empty.
	Disjoint Relation = iota
	// Identical: same start and same end.
	Identical
	// SubjectFullyInside: source.Start < subject.Start and subject.End < source.End.
	SubjectFullyInside
	// SourceFullyInside: subject.Start < source.Start and source.End < subject.End.
	SourceFullyInside
	// SubjectOverlapsSourceStart: subject starts before source and ends inside it.
	SubjectOverlapsSourceStart
	// SubjectOverlapsSourceEnd: subject starts inside source and ends after it.
	SubjectOverlapsSourceEnd
	// SameStartSubjectShorter: shared start, subject ends first.
	SameStartSubjectShorter
	// SameStartSourceShorter: shared start, source ends first.
	SameStartSourceShorter
	// SameEndSubjectShorter: shared end, subject starts later.
	SameEndSubjectShorter
	// SameEndSourceShorter: shared end, source starts later.
	SameEndSourceShorter
)

var relationNames = [...]string{
	Disjoint:                   "disjoint",
	Identical:                  "identical",
	SubjectFullyInside:         "subject-fully-inside",
	SourceFullyInside:          "source-fully-inside",
	SubjectOverlapsSourceStart: "subject-overlaps-source-start",
	SubjectOverlapsSourceEnd:   "subject-overlaps-source-end",
	SameStartSubjectShorter:    "same-start-subject-shorter",
	SameStartSourceShorter:     "same-start-source-shorter",
	SameEndSubjectShorter:      "same-end-subject-shorter",
	SameEndSourceShorter:       "same-end-source-shorter",
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return "unknown"
	}
	return relationNames[r]
}

// Classify returns the relation of subject to source.
func Classify(subject, source Interval) Relation {
	if subject.Empty() || source.Empty() || !subject.Overlaps(source) {
		return Disjoint
	}

	starts := subject.Start.Cmp(source.Start)
	ends := subject.End.Cmp(source.End)

	switch {
	case starts == 0 && ends == 0:
		return Identical
	case starts > 0 && ends < 0:
		return SubjectFullyInside
	case starts < 0 && ends > 0:
		return SourceFullyInside
	case starts < 0 && ends < 0:
		return SubjectOverlapsSourceStart
	case starts > 0 && ends > 0:
		return SubjectOverlapsSourceEnd
	case starts == 0 && ends < 0:
		return SameStartSubjectShorter
	case starts == 0:
		return SameStartSourceShorter
	case starts > 0:
		return SameEndSubjectShorter
	default:
		return SameEndSourceShorter
	}
}

// Split partitions subject against source. When they overlap, matched is
// the part of subject inside source and leftovers are the parts before and
// after it, in that order, never empty. When they are disjoint, ok is false
// and leftovers is nil.
//
// matched and leftovers together cover subject exactly: boundary points are
// neither dropped nor duplicated.
func Split(subject, source Interval) (matched Interval, ok bool, leftovers []Interval) {
	if Classify(subject, source) == Disjoint {
		return Interval{}, false, nil
	}

	matched = subject.Intersect(source)
	if subject.Start.Less(source.Start) {
		leftovers = append(leftovers, Interval{Start: subject.Start, End: source.Start})
	}
	if source.End.Less(subject.End) {
		leftovers = append(leftovers, Interval{Start: source.End, End: subject.End})
	}
	return matched, true, leftovers
}
