package marks

import "sort"

// Rank orders standings by total descending, then roll number and user ID ascending,
// and numbers them from 1. Equal totals still get distinct, increasing ranks.
func Rank(standings []Standing) []LeaderboardEntry {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Marks.Total(), sorted[j].Marks.Total()
		if ti != tj {
			return ti > tj
		}
		if sorted[i].RollNo != sorted[j].RollNo {
			return sorted[i].RollNo < sorted[j].RollNo
		}
		return sorted[i].UserID < sorted[j].UserID
	})

	board := make([]LeaderboardEntry, len(sorted))
	for i, s := range sorted {
		board[i] = LeaderboardEntry{
			Rank:    i + 1,
			RollNo:  s.RollNo,
			Student: s.Username,
			Total:   s.Marks.Total(),
		}
	}
	return board
}
