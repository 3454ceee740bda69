package graph

// EdgeScore compares a learned skeleton against the true one.
type EdgeScore struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// Score computes edge precision, recall and F1 of learned against truth.
//
// An empty learned graph has precision 1, an empty truth has recall 1, so
// two empty graphs score F1 = 1.
func Score(truth, learned *Graph) EdgeScore {
	var s EdgeScore
	for _, e := range learned.Edges() {
		if truth.HasEdge(e.U, e.V) {
			s.TruePositives++
		} else {
			s.FalsePositives++
		}
	}
	s.FalseNegatives = truth.EdgeCount() - s.TruePositives

	s.Precision = ratio(s.TruePositives, s.TruePositives+s.FalsePositives)
	s.Recall = ratio(s.TruePositives, s.TruePositives+s.FalseNegatives)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 1
	}
	return float64(num) / float64(den)
}
