// Package analysis summarizes the facet distribution of a collection for
// the status line: how unevenly the milestone's issues spread across
// assignees and labels, and which facets carry the most load.
package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/index"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/util/topk"
)

// FacetStats describes the spread of issues across one facet dimension
type FacetStats struct {
	Count  int     // distinct facet values in use
	Mean   float64 // mean issues per value
	StdDev float64
	Max    int
	Top    []string // busiest values, most loaded first
}

// Summary is the collection-level distribution overview
type Summary struct {
	TotalIssues int
	Assignees   FacetStats
	Labels      FacetStats
}

// Summarize computes distribution stats for the indexed collection.
// Alternative-assignee labels count toward the assignee facet, not the
// label facet, mirroring how the pickers present them.
func Summarize(issues []model.Issue, idx *index.Index) Summary {
	s := Summary{TotalIssues: len(issues)}

	labelCounts := make(map[string]int)
	for _, l := range idx.UsableLabels() {
		if l.Count > 0 {
			labelCounts[l.Text] = l.Count
		}
	}
	s.Labels = facetStats(labelCounts)

	assigneeCounts := make(map[string]int)
	for i := range issues {
		if issues[i].Assignee != "" {
			assigneeCounts[issues[i].Assignee]++
		}
	}
	for _, a := range idx.Assignees() {
		if !a.IsAlternative {
			continue
		}
		for _, labelID := range idx.AltLabelIDs(a.Name) {
			for i := range issues {
				if issues[i].HasLabel(labelID) {
					assigneeCounts[a.Name]++
				}
			}
		}
	}
	s.Assignees = facetStats(assigneeCounts)

	return s
}

const topFacetValues = 3

func facetStats(counts map[string]int) FacetStats {
	fs := FacetStats{Count: len(counts)}
	if len(counts) == 0 {
		return fs
	}

	values := make([]float64, 0, len(counts))
	collector := topk.New(topFacetValues, func(a, b string) bool { return a < b })
	for name, n := range counts {
		values = append(values, float64(n))
		collector.Add(name, float64(n))
		if n > fs.Max {
			fs.Max = n
		}
	}

	fs.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		fs.StdDev = stat.StdDev(values, nil)
	}
	fs.Top = collector.Results()
	return fs
}
