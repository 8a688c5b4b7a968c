package ledger

import (
	"sort"

	"github.com/billfold-dev/billfold/internal/model"
)

// SortByDate stable-sorts transactions ascending by date. Records with an
// unparseable date get the zero time and therefore sort first.
func SortByDate(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		di, _ := model.ParseDate(txns[i].Date)
		dj, _ := model.ParseDate(txns[j].Date)
		return di.Before(dj)
	})
}
