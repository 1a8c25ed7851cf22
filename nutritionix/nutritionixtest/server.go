// Package nutritionixtest serves a canned subset of the Nutritionix API for
// tests.
package nutritionixtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gorilla/mux"
)

const (
	AppID  = "test-app-id"
	AppKey = "test-app-key"

	BigMacID = "513fc9e73fe3ffd40300109f"
)

// Eggs carries real-world alternate measures; the nutrients are those of
// one large (50 g) egg.
const Eggs = `{
	"food_name": "eggs",
	"serving_qty": 1,
	"serving_unit": "large",
	"serving_weight_grams": 50,
	"nf_calories": 71.5,
	"nf_total_fat": 4.76,
	"nf_saturated_fat": 1.56,
	"nf_cholesterol": 186,
	"nf_sodium": 71,
	"nf_total_carbohydrate": 0.36,
	"nf_dietary_fiber": 0,
	"nf_sugars": 0.19,
	"nf_protein": 6.28,
	"photo": {"thumb": "https://nix-tag-images.s3.amazonaws.com/775_thumb.jpg"},
	"alt_measures": [
		{"serving_weight": 243, "measure": "cup (4.86 large eggs)", "seq": 1, "qty": 1},
		{"serving_weight": 50, "measure": "large", "seq": 2, "qty": 1},
		{"serving_weight": 38, "measure": "small", "seq": 3, "qty": 1},
		{"serving_weight": 44, "measure": "medium", "seq": 4, "qty": 1},
		{"serving_weight": 56, "measure": "extra large", "seq": 5, "qty": 1},
		{"serving_weight": 63, "measure": "jumbo", "seq": 6, "qty": 1},
		{"serving_weight": 100, "measure": "g", "seq": null, "qty": 100},
		{"serving_weight": 28.3495, "measure": "wt. oz", "seq": null, "qty": 1}
	]
}`

const Apple = `{
	"food_name": "apple",
	"serving_qty": 1,
	"serving_unit": "medium (3\" dia)",
	"serving_weight_grams": 182,
	"nf_calories": 94.64,
	"nf_total_fat": 0.31,
	"nf_saturated_fat": 0.05,
	"nf_cholesterol": 0,
	"nf_sodium": 1.82,
	"nf_total_carbohydrate": 25.13,
	"nf_dietary_fiber": 4.37,
	"nf_sugars": 18.91,
	"nf_protein": 0.47,
	"photo": {"thumb": "https://nix-tag-images.s3.amazonaws.com/384_thumb.jpg"},
	"alt_measures": [
		{"serving_weight": 182, "measure": "medium (3\" dia)", "seq": 1, "qty": 1},
		{"serving_weight": 100, "measure": "g", "seq": null, "qty": 100}
	]
}`

// BigMac has no alternate measures, and sends some numbers as text the way
// the branded endpoint sometimes does.
const BigMac = `{
	"food_name": "Big Mac",
	"brand_name": "McDonald's",
	"nix_item_id": "513fc9e73fe3ffd40300109f",
	"serving_qty": 1,
	"serving_unit": "burger",
	"serving_weight_grams": "212",
	"nf_calories": 540,
	"nf_total_fat": 28,
	"nf_saturated_fat": 10,
	"nf_cholesterol": 80,
	"nf_sodium": "940",
	"nf_total_carbohydrate": 46,
	"nf_dietary_fiber": 3,
	"nf_sugars": 9,
	"nf_protein": 25,
	"photo": {"thumb": null},
	"alt_measures": null
}`

// Server is a fake Nutritionix API. Common foods are keyed by name and
// branded foods by nix_item_id.
type Server struct {
	*httptest.Server
	Common  map[string]string
	Branded map[string]string
}

func NewServer() *Server {
	s := &Server{
		Common:  map[string]string{"eggs": Eggs, "apple": Apple},
		Branded: map[string]string{BigMacID: BigMac},
	}

	r := mux.NewRouter()
	r.Use(s.auth)
	r.HandleFunc("/search/instant", s.search).Methods(http.MethodGet)
	r.HandleFunc("/natural/nutrients", s.natural).Methods(http.MethodPost)
	r.HandleFunc("/search/item", s.item).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	return s
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-app-id") != AppID || r.Header.Get("x-app-key") != AppKey {
			write(w, http.StatusUnauthorized, `{"message": "unauthorized"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))

	common := []string{}
	for name, rec := range s.Common {
		if strings.Contains(name, q) {
			common = append(common, rec)
		}
	}

	branded := []string{}
	for _, rec := range s.Branded {
		var f struct {
			Name string `json:"food_name"`
		}
		if err := json.Unmarshal([]byte(rec), &f); err == nil && strings.Contains(strings.ToLower(f.Name), q) {
			branded = append(branded, rec)
		}
	}

	body := `{"common": [` + strings.Join(common, ",") + `], "branded": [` + strings.Join(branded, ",") + `]}`
	write(w, http.StatusOK, body)
}

func (s *Server) natural(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		write(w, http.StatusBadRequest, `{"message": "bad body"}`)
		return
	}

	rec, ok := s.Common[strings.ToLower(in.Query)]
	if !ok {
		write(w, http.StatusNotFound, `{"message": "We couldn't match any of your foods"}`)
		return
	}
	write(w, http.StatusOK, `{"foods": [`+rec+`]}`)
}

func (s *Server) item(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.Branded[r.URL.Query().Get("nix_item_id")]
	if !ok {
		write(w, http.StatusNotFound, `{"message": "resource not found"}`)
		return
	}
	write(w, http.StatusOK, `{"foods": [`+rec+`]}`)
}

func write(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
