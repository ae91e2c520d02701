package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/npeschke/jump-monorepo/portrait"
)

// handler provides global values that must be safe for concurrent use from
// multiple goroutines to each handler method.
type handler struct {
	*Global

	router *mux.Router
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, h.Global.Site)
	fmt.Fprintln(w, "GET /dictionary")
	fmt.Fprintln(w, "GET /dictionary/columns")
	fmt.Fprintln(w, "GET /image/{source}/{batch}/{plate}/{well}/{site}/{channel}")
}

// Dictionary serves the full data dictionary document. Column order within
// each table is the document order.
func (h *handler) Dictionary(w http.ResponseWriter, r *http.Request) {
	out, err := json.Marshal(h.Global.dict)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

type columnInfo struct {
	Database    string `json:"database"`
	Table       string `json:"table"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Columns flattens the dictionary into one entry per column, keeping the
// per-table column order.
func (h *handler) Columns(w http.ResponseWriter, r *http.Request) {
	dbNames := make([]string, 0, len(h.Global.dict.Databases))
	for name := range h.Global.dict.Databases {
		dbNames = append(dbNames, name)
	}
	sort.Strings(dbNames)

	out := []columnInfo{}
	for _, dbName := range dbNames {
		db := h.Global.dict.Databases[dbName]

		tableNames := make([]string, 0, len(db.Tables))
		for name := range db.Tables {
			tableNames = append(tableNames, name)
		}
		sort.Strings(tableNames)

		for _, tableName := range tableNames {
			table := db.Tables[tableName]
			for _, name := range table.Columns.Names() {
				desc, _ := table.Columns.Get(name)
				out = append(out, columnInfo{
					Database:    dbName,
					Table:       tableName,
					Name:        name,
					Description: desc,
				})
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.Global.log.Println(err)
	}
}

// Image fetches one channel of one imaging site from the gallery and serves
// it as a PNG. Pass ?raw=1 to skip the contrast rescaling.
func (h *handler) Image(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	site, err := strconv.Atoi(vars["site"])
	if err != nil {
		HTTPError(h, w, r, fmt.Errorf("site %q is not an integer", vars["site"]))
		return
	}

	correction := r.URL.Query().Get("correction")

	img, err := portrait.Image(r.Context(), h.Global.clients,
		vars["source"], vars["batch"], vars["plate"], vars["well"],
		site, vars["channel"], correction)
	if err != nil {
		HTTPError(h, w, r, err)
		return
	}

	if r.URL.Query().Get("raw") == "" {
		var display image.Image
		if h.Global.ThumbnailWidth > 0 {
			display = portrait.Thumbnail(img, h.Global.ThumbnailWidth)
		} else {
			display = portrait.Rescale(img)
		}
		img = display
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		h.Global.log.Println(err)
	}
}

func HTTPError(h *handler, w http.ResponseWriter, r *http.Request, err error) {
	h.Global.log.Println(r.URL.Path, err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
