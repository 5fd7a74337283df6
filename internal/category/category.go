// Package category holds the fixed list of reporting buckets shared by the
// transaction export and the summary report.
package category

// Category is the reporting bucket for a (brand, product) pair.
type Category string

const (
	VisaCred         Category = "Visa Cred"
	VisaDeb          Category = "Visa Deb"
	MasterCred       Category = "Master Cred"
	MasterDeb        Category = "Master Deb"
	MaestroDeb       Category = "Maestro Deb"
	EloCred          Category = "Elo Cred"
	EloDeb           Category = "Elo Deb"
	AmexCred         Category = "Amex Cred"
	B2BMasterCredito Category = "B2B Master Credito"
)

const internationalSuffix = " Int"

// Entry maps one category to the export's brand/product labels and to the
// anchor text of its block in the summary report. Labels are matched exactly,
// accents and case included.
type Entry struct {
	Category Category
	Brand    string
	Product  string
	// International is the product label of the international variant.
	// Its rows are reported under Category.
	International string
	// Keyword anchors the category's block in the summary report. Empty when
	// the report has no such block.
	Keyword string
}

// HasInternational reports whether the entry has an international sibling.
func (e Entry) HasInternational() bool {
	return e.International != ""
}

// Sibling is the category the international variant is summed under before
// it is folded into the parent.
func (e Entry) Sibling() Category {
	return e.Category + internationalSuffix
}

var table = []Entry{
	{Category: VisaCred, Brand: "Visa", Product: "Crédito", International: "Crédito Internacional", Keyword: "Bin Visa Cred"},
	{Category: VisaDeb, Brand: "Visa", Product: "Débito", International: "Débito Internacional", Keyword: "Bin Visa Deb"},
	{Category: MasterCred, Brand: "Mastercard", Product: "Crédito", International: "Crédito Internacional", Keyword: "Bin Master Cred"},
	{Category: MasterDeb, Brand: "Mastercard", Product: "Débito", Keyword: "Bin Master Deb"},
	{Category: MaestroDeb, Brand: "Maestro", Product: "Débito", International: "Débito Internacional", Keyword: "Bin Maestro Deb"},
	{Category: EloCred, Brand: "Elo", Product: "Crédito", Keyword: "Bin Elo Cred"},
	{Category: EloDeb, Brand: "Elo", Product: "Débito", Keyword: "Bin Elo Deb"},
	{Category: AmexCred, Brand: "Amex", Product: "Crédito", International: "Crédito Internacional", Keyword: "Bin Amex"},
	{Category: B2BMasterCredito, Brand: "B2B", Product: "Master Credito", Keyword: "B2B Master Credito"},
}

// Table returns a copy of the category table in reporting order.
func Table() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// Categories returns every configured category in reporting order.
func Categories() []Category {
	out := make([]Category, 0, len(table))
	for _, e := range table {
		out = append(out, e.Category)
	}
	return out
}

// Lookup returns the table entry for c.
func Lookup(c Category) (Entry, bool) {
	for _, e := range table {
		if e.Category == c {
			return e, true
		}
	}
	return Entry{}, false
}
