package handlers

import (
	"net/http"

	"exam-service/internal/corpus"
	"exam-service/internal/department"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	Resolver *department.Resolver
	Corpus   *corpus.Repository
}

func NewDepartmentHandler(resolver *department.Resolver, repo *corpus.Repository) *DepartmentHandler {
	return &DepartmentHandler{Resolver: resolver, Corpus: repo}
}

// ListDepartments serves the department picker: every canonical
// category with the identifiers that resolve to it.
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	grouped := h.Resolver.AliasesByCategory()

	type entry struct {
		Category string   `json:"category"`
		Aliases  []string `json:"aliases"`
	}
	departments := make([]entry, 0, len(grouped))
	for _, category := range h.Resolver.Categories() {
		departments = append(departments, entry{
			Category: category,
			Aliases:  grouped[category],
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"departments":    departments,
		"question_count": h.Corpus.Size(),
	})
}
