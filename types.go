package framecheck

// UniqueKeep selects which occurrence of a duplicated value is treated as
// canonical (and therefore not reported) by the unique check.
type UniqueKeep int

const (
	KeepFirst UniqueKeep = iota // report all but the first occurrence
	KeepLast                    // report all but the last occurrence
	KeepNone                    // report every occurrence
)

func (k UniqueKeep) String() string {
	switch k {
	case KeepLast:
		return "last"
	case KeepNone:
		return "all"
	default:
		return "first"
	}
}

// CheckScope tags what a declared check observes.
type CheckScope int

const (
	ScopeElement CheckScope = iota // one value at a time, nulls skipped
	ScopeColumn                    // the whole column
	ScopeFrame                     // the whole frame
)

// Options bundles per-call validation options. Head, Tail and Sample select
// row subsets (0 disables); when several are set the union of the selected
// rows is validated. RandomState seeds sampling so subsets are reproducible.
type Options struct {
	Head        int
	Tail        int
	Sample      int
	RandomState int64
	Lazy        bool // collect every violation instead of stopping at the first
	Inplace     bool // skip the defensive copy of the input
}

func lastOption(opts []Options) Options {
	if len(opts) == 0 {
		return Options{}
	}
	return opts[len(opts)-1]
}
