package apitest

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// route dispatches a request; the caller holds s.mu
func (s *Server) route(r *http.Request, seg []string, body object) (int, any) {
	if len(seg) == 0 || seg[0] == "" {
		return notFound("route")
	}
	root := seg[0]

	if root == "auth" {
		return s.authRoute(r, seg, body)
	}

	switch {
	case len(seg) == 1:
		switch r.Method {
		case http.MethodGet:
			return http.StatusOK, filterList(s.list(root), r.URL.Query())
		case http.MethodPost:
			id := s.insert(root, body)
			return http.StatusCreated, s.collections[root][id]
		}

	case len(seg) == 2 && seg[1] == "search" && r.Method == http.MethodGet:
		return http.StatusOK, search(s.list(root), r.URL.Query().Get("q"))

	case len(seg) == 2 && seg[1] == "stats" && r.Method == http.MethodGet:
		return s.stats(root, r.URL.Query())

	case len(seg) == 2:
		return s.itemRoute(r, root, seg[1], body)

	case len(seg) == 3 && root == "testimonies" && seg[2] == "approve" && r.Method == http.MethodPost:
		obj, ok := s.collections[root][seg[1]]
		if !ok {
			return notFound("testimony")
		}
		obj["isApproved"] = true
		return http.StatusOK, obj

	case root == "choir" && len(seg) >= 3 && seg[2] == "songs":
		return s.songRoute(r, seg, body)

	case root == "choir" && len(seg) >= 3 && seg[2] == "members":
		return s.choirMemberRoute(r, seg, body)
	}

	return http.StatusMethodNotAllowed, object{"message": fmt.Sprintf("%s %s not supported", r.Method, r.URL.Path)}
}

func (s *Server) itemRoute(r *http.Request, collection, id string, body object) (int, any) {
	obj, ok := s.collections[collection][id]
	if !ok {
		return notFound(collection + " " + id)
	}
	switch r.Method {
	case http.MethodGet:
		return http.StatusOK, obj
	case http.MethodPut:
		for k, v := range body {
			if k == "id" {
				continue
			}
			obj[k] = v
		}
		obj["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
		return http.StatusOK, obj
	case http.MethodDelete:
		s.remove(collection, id)
		return http.StatusNoContent, nil
	}
	return http.StatusMethodNotAllowed, object{"message": "method not allowed"}
}

func (s *Server) songRoute(r *http.Request, seg []string, body object) (int, any) {
	choirID := seg[1]
	choir, ok := s.collections["choir"][choirID]
	if !ok {
		return notFound("choir " + choirID)
	}
	collection := "choir/" + choirID + "/songs"

	if len(seg) == 3 {
		switch r.Method {
		case http.MethodGet:
			return http.StatusOK, s.list(collection)
		case http.MethodPost:
			body["choirId"] = choirID
			if _, ok := body["choirName"]; !ok {
				body["choirName"] = choir["name"]
			}
			id := s.insert(collection, body)
			return http.StatusCreated, s.collections[collection][id]
		}
	}
	if len(seg) == 4 {
		return s.itemRoute(r, collection, seg[3], body)
	}
	return http.StatusMethodNotAllowed, object{"message": "method not allowed"}
}

func (s *Server) choirMemberRoute(r *http.Request, seg []string, body object) (int, any) {
	choir, ok := s.collections["choir"][seg[1]]
	if !ok {
		return notFound("choir " + seg[1])
	}
	members, _ := choir["choirMembers"].([]any)

	switch {
	case len(seg) == 3 && r.Method == http.MethodPost:
		memberID, _ := body["memberId"].(string)
		if memberID == "" {
			return http.StatusBadRequest, object{"message": "memberId is required"}
		}
		for _, m := range members {
			if m == memberID {
				return http.StatusConflict, object{"message": "already a choir member"}
			}
		}
		choir["choirMembers"] = append(members, memberID)
		return http.StatusOK, choir
	case len(seg) == 4 && r.Method == http.MethodDelete:
		kept := make([]any, 0, len(members))
		found := false
		for _, m := range members {
			if m == seg[3] {
				found = true
				continue
			}
			kept = append(kept, m)
		}
		if !found {
			return notFound("choir member " + seg[3])
		}
		choir["choirMembers"] = kept
		return http.StatusNoContent, nil
	}
	return http.StatusMethodNotAllowed, object{"message": "method not allowed"}
}

func (s *Server) authRoute(r *http.Request, seg []string, body object) (int, any) {
	if r.Method != http.MethodPost || len(seg) != 2 {
		return notFound("route")
	}
	switch seg[1] {
	case "forgot-password", "request-password-reset":
		return http.StatusOK, object{"message": fmt.Sprintf("reset link sent to %v", body["email"])}
	case "reset-password":
		if body["token"] != "valid-token" {
			return http.StatusBadRequest, object{"message": "invalid or expired token"}
		}
		return http.StatusOK, object{"message": "password updated"}
	}
	return notFound("route")
}

func (s *Server) stats(root string, q url.Values) (int, any) {
	switch root {
	case "members":
		byFamily, byLevel, byStatus := map[string]int{}, map[string]int{}, map[string]int{}
		items := s.list(root)
		for _, m := range items {
			byFamily[fmt.Sprint(m["family"])]++
			byLevel[fmt.Sprint(m["level"])]++
			byStatus[fmt.Sprint(m["status"])]++
		}
		return http.StatusOK, object{
			"total":    len(items),
			"byFamily": byFamily,
			"byLevel":  byLevel,
			"byStatus": byStatus,
		}
	case "attendance":
		items := filterList(s.list(root), q)
		present := 0
		for _, a := range items {
			if a["present"] == true {
				present++
			}
		}
		rate := 0.0
		if len(items) > 0 {
			rate = float64(present) / float64(len(items))
		}
		return http.StatusOK, object{
			"family":         q.Get("family"),
			"totalRecords":   len(items),
			"presentCount":   present,
			"absentCount":    len(items) - present,
			"attendanceRate": rate,
		}
	}
	return notFound("stats")
}

// queryFields maps query parameters to object fields where they differ
var queryFields = map[string]string{"approved": "isApproved"}

func filterList(items []object, q url.Values) []object {
	out := make([]object, 0, len(items))
	for _, obj := range items {
		match := true
		for key := range q {
			field := key
			if mapped, ok := queryFields[key]; ok {
				field = mapped
			}
			if fmt.Sprint(obj[field]) != q.Get(key) {
				match = false
				break
			}
		}
		if match {
			out = append(out, obj)
		}
	}
	return out
}

func search(items []object, term string) []object {
	term = strings.ToLower(term)
	out := make([]object, 0)
	for _, obj := range items {
		for _, field := range []string{"name", "title", "email"} {
			if v, ok := obj[field].(string); ok && strings.Contains(strings.ToLower(v), term) {
				out = append(out, obj)
				break
			}
		}
	}
	return out
}
