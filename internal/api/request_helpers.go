package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/everpath/mastery-api/internal/domain"
)

// pathParam returns the named chi URL parameter.
func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// profileToResponse flattens a learner profile into deterministic, sorted
// slices for the wire.
func profileToResponse(p *domain.LearnerProfile) ProfileResponse {
	response := ProfileResponse{
		LearnerID: p.LearnerID.String(),
		Name:      p.Name,
		Domains:   make([]DomainProfile, 0, len(p.Mastery)),
	}

	for domainID, byConcept := range p.Mastery {
		dp := DomainProfile{
			DomainID:       domainID,
			AverageMastery: p.DomainAverage(domainID),
			Concepts:       make([]MasteryResponse, 0, len(byConcept)),
		}
		for _, m := range byConcept {
			dp.Concepts = append(dp.Concepts, masteryToResponse(m))
		}
		sort.Slice(dp.Concepts, func(i, j int) bool {
			return dp.Concepts[i].ConceptID < dp.Concepts[j].ConceptID
		})
		response.Domains = append(response.Domains, dp)
	}
	sort.Slice(response.Domains, func(i, j int) bool {
		return response.Domains[i].DomainID < response.Domains[j].DomainID
	})
	return response
}
