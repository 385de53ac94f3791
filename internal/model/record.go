package model

// Record is a ledger entity addressed by its identifier.
type Record interface {
	Key() string
	Kind() Kind
}

// Scored records carry a replaceable Score.
type Scored interface {
	Record
	SetScore(Score)
}

// Reviewed records carry a review ledger.
type Reviewed interface {
	Record
	AddReview(reviewer string, reliability float32) (float32, bool)
	RemoveReview(reviewer string) (float32, bool)
}

// Localized records carry a mutable locale.
type Localized interface {
	Record
	SetLocale(Locale)
}

// Linked records carry a mutable link.
type Linked interface {
	Record
	SetLink(string)
}

// Named records carry a mutable display name.
type Named interface {
	Record
	SetName(string)
}
