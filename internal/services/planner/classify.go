package planner

import (
	"strings"

	"github.com/xelth-com/freshroute/internal/utils"
)

// RouteType drives vehicle preference.
type RouteType string

const (
	RouteLocal    RouteType = "local"
	RouteDistant  RouteType = "distant"
	RouteRegional RouteType = "regional"
)

var localKeywords = []string{"TRANSFER", "TRANSFERENCIA", "INTERNO", "INTERNAL", "LOCAL", "RETIRADA"}

var distantCities = []string{
	"PELOTAS", "RIO GRANDE", "SANTA MARIA", "PASSO FUNDO", "URUGUAIANA", "BAGE",
	"SANTANA DO LIVRAMENTO", "CHAPECO", "FLORIANOPOLIS", "CURITIBA",
}

// ClassifyRoute matches a route display name against the local keywords,
// then the distant cities. Anything else is regional.
func ClassifyRoute(displayName string) RouteType {
	name := utils.NormalizeKey(displayName)
	for _, kw := range localKeywords {
		if strings.Contains(name, kw) {
			return RouteLocal
		}
	}
	for _, city := range distantCities {
		if strings.Contains(name, city) {
			return RouteDistant
		}
	}
	return RouteRegional
}
