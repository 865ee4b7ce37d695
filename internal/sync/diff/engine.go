package diff

import (
	"sort"

	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/sync/scanner"
)

// Compute decides one action per date in the union of both indices, in
// ascending date order. A date present only locally is deleted, only
// remotely fetched, and present on both sides fetched again unless
// modification time and size both match.
func Compute(remoteIdx, localIdx scanner.Index) []Action {
	dates := make(map[codec.Date]struct{}, len(remoteIdx)+len(localIdx))
	for d := range remoteIdx {
		dates[d] = struct{}{}
	}
	for d := range localIdx {
		dates[d] = struct{}{}
	}

	ordered := make([]codec.Date, 0, len(dates))
	for d := range dates {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Before(ordered[j])
	})

	actions := make([]Action, 0, len(ordered))
	for _, date := range ordered {
		remoteRec, remoteOK := remoteIdx[date]
		localRec, localOK := localIdx[date]

		switch {
		case !remoteOK:
			actions = append(actions, Action{
				Type:  ActionDelete,
				Date:  date,
				Local: recordPtr(localRec),
			})
		case !localOK:
			actions = append(actions, Action{
				Type:   ActionFetch,
				Date:   date,
				Reason: ReasonNew,
				Remote: recordPtr(remoteRec),
			})
		case !remoteRec.Modified.Equal(localRec.Modified) || remoteRec.Size != localRec.Size:
			actions = append(actions, Action{
				Type:   ActionFetch,
				Date:   date,
				Reason: ReasonUpdate,
				Remote: recordPtr(remoteRec),
				Local:  recordPtr(localRec),
			})
		default:
			actions = append(actions, Action{
				Type:   ActionSkip,
				Date:   date,
				Remote: recordPtr(remoteRec),
				Local:  recordPtr(localRec),
			})
		}
	}

	return actions
}

func recordPtr(rec scanner.FileRecord) *scanner.FileRecord {
	r := rec
	return &r
}
