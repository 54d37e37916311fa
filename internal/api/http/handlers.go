// internal/api/http/handlers.go
package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
)

func (a *api) healthz(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) readyz(w nethttp.ResponseWriter, r *nethttp.Request) {
	if a.ready != nil {
		if err := a.ready(r.Context()); err != nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	tables := a.svc.Tables()
	writeJSON(w, nethttp.StatusOK, map[string]interface{}{
		"status":  "ready",
		"dataset": tables.Fingerprint(),
		"rows":    tables.Counts(),
	})
}

func (a *api) listOccupations(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	text := q.str("q")
	limit := q.intOr("limit", 0)
	if q.err != nil {
		writeError(w, a.logger, q.err)
		return
	}

	if text == "" && limit == 0 {
		writeJSON(w, nethttp.StatusOK, a.svc.ListOccupations(r.Context()))
		return
	}
	occs, err := a.svc.SearchOccupations(r.Context(), text, limit)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, occs)
}

func (a *api) getOccupation(w nethttp.ResponseWriter, r *nethttp.Request) {
	occ, err := a.svc.GetOccupation(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, occ)
}

func (a *api) listCountries(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, a.svc.ListCountries(r.Context()))
}

func (a *api) listCities(w nethttp.ResponseWriter, r *nethttp.Request) {
	cities, err := a.svc.ListCities(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, cities)
}

func (a *api) convert(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	amount := q.float("amount")
	if q.err != nil {
		writeError(w, a.logger, q.err)
		return
	}
	out, err := a.svc.ConvertSalary(r.Context(), amount, q.str("period"), q.str("country"), q.str("currency"))
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, out)
}

// salaryUSD reads salary, period and currency and converts them to annual USD.
func (a *api) salaryUSD(r *nethttp.Request, q *query, countryCode string) (float64, error) {
	amount := q.float("salary")
	if q.err != nil {
		return 0, q.err
	}
	converted, err := a.svc.ConvertSalary(r.Context(), amount, q.str("period"), countryCode, q.str("currency"))
	if err != nil {
		return 0, err
	}
	return converted.AnnualUSD, nil
}

func (a *api) countryPercentile(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	occupation := q.required("occupation")
	country := q.required("country")
	salaryUSD, err := a.salaryUSD(r, q, country)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	res, err := a.svc.GetPercentileForCountry(r.Context(), occupation, country, salaryUSD)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, res)
}

func (a *api) cityPercentile(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	occupation := q.required("occupation")
	country := q.required("country")
	city := q.required("city")
	salaryUSD, err := a.salaryUSD(r, q, country)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	res, err := a.svc.GetPercentileForCity(r.Context(), occupation, country, city, salaryUSD)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, res)
}

func (a *api) comparisons(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	occupation := q.required("occupation")
	country := q.str("country")
	salaryUSD, err := a.salaryUSD(r, q, country)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}

	res, err := a.svc.GetCountryComparisons(r.Context(), occupation, salaryUSD, country)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, res)
}

func (a *api) relocation(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := &query{r: r}
	occupation := q.required("occupation")
	from := q.required("from")
	to := q.required("to")
	if q.err != nil {
		writeError(w, a.logger, q.err)
		return
	}

	res, err := a.svc.GetRelocationResult(r.Context(), occupation, from, to)
	if err != nil {
		writeError(w, a.logger, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, res)
}
