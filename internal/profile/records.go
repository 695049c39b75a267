package profile

import (
	"sort"
	"time"
)

// InsertRecord returns a new leaderboard with rec added, sorted by score
// descending and truncated to limit. Equal scores keep insertion order.
// The input slice is not modified.
func InsertRecord(records []Record, rec Record, limit int) []Record {
	out := make([]Record, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, rec)
	return normalizeRecords(out, limit)
}

// RecordGameOver folds a finished session into the profile: counters,
// best score and a dated leaderboard entry for name.
func RecordGameOver(p Profile, score float64, name string, at time.Time, limit int) Profile {
	p.GamesPlayed++
	p.TotalTime += score
	if score > p.BestScore {
		p.BestScore = score
	}
	p.Records = InsertRecord(p.Records, Record{
		Name:  name,
		Score: score,
		Date:  at.Format(DateLayout),
	}, limit)
	return p
}

func normalizeRecords(records []Record, limit int) []Record {
	if records == nil {
		return []Record{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
