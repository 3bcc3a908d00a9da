package routes

import "strings"

// Group organizes routes under a common prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to mux.
func Register(mux Mux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

// Patterns returns the ServeMux patterns the groups register, in order.
func Patterns(groups ...Group) []string {
	var out []string
	for _, group := range groups {
		out = appendPatterns(out, "", group)
	}
	return out
}

func registerGroup(mux Mux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(pattern(fullPrefix, route), route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

func appendPatterns(out []string, parentPrefix string, group Group) []string {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		out = append(out, pattern(fullPrefix, route))
	}
	for _, child := range group.Children {
		out = appendPatterns(out, fullPrefix, child)
	}
	return out
}

func pattern(prefix string, route Route) string {
	path := prefix + route.Pattern
	if path == "" {
		path = "/"
	}
	if route.Method == "" {
		return path
	}
	return strings.ToUpper(route.Method) + " " + path
}
