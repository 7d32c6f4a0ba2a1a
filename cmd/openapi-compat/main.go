// Package main checks two generated swagger.yaml snapshots for breaking API
// changes. CI runs it against the last released spec before publishing a new
// one: removed paths, operations, or response codes fail the check.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"patch":   {},
	"head":    {},
	"options": {},
}

// apiSurface is the subset of an OpenAPI document relevant to compatibility:
// path -> method -> declared response codes.
type apiSurface map[string]map[string]map[string]struct{}

func main() {
	basePath := flag.String("base", "", "base swagger.yaml path (the released spec)")
	revisionPath := flag.String("revision", "", "revision swagger.yaml path (the candidate spec)")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> -revision <path>")
		os.Exit(2)
	}

	base, err := loadSurface(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base spec: %v\n", err)
		os.Exit(1)
	}
	revision, err := loadSurface(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revision spec: %v\n", err)
		os.Exit(1)
	}

	breaks := diffSurfaces(base, revision)
	if len(breaks) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, b := range breaks {
			fmt.Fprintf(os.Stderr, "- %s\n", b)
		}
		os.Exit(1)
	}

	fmt.Println("openapi compatibility check passed")
}

func loadSurface(path string) (apiSurface, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	pathsRaw, ok := doc["paths"]
	if !ok {
		return nil, errors.New("missing top-level paths field")
	}
	pathsMap, ok := asStringMap(pathsRaw)
	if !ok {
		return nil, errors.New("paths is not an object")
	}

	surface := make(apiSurface, len(pathsMap))

	for pathKey, pathEntry := range pathsMap {
		opsRaw, ok := asStringMap(pathEntry)
		if !ok {
			continue
		}

		ops := make(map[string]map[string]struct{})
		for methodKey, methodEntry := range opsRaw {
			method := strings.ToLower(strings.TrimSpace(methodKey))
			if _, supported := supportedMethods[method]; !supported {
				continue
			}
			methodMap, ok := asStringMap(methodEntry)
			if !ok {
				continue
			}

			responses := make(map[string]struct{})
			if responsesRaw, exists := methodMap["responses"]; exists {
				if responsesMap, ok := asStringMap(responsesRaw); ok {
					for code := range responsesMap {
						code = strings.ToLower(strings.TrimSpace(code))
						if code != "" {
							responses[code] = struct{}{}
						}
					}
				}
			}
			ops[method] = responses
		}

		if len(ops) > 0 {
			surface[pathKey] = ops
		}
	}

	return surface, nil
}

// asStringMap normalizes the two map shapes yaml.v3 can decode into.
func asStringMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// diffSurfaces reports everything present in base but missing from revision.
// Additions are never breaking and are ignored.
func diffSurfaces(base, revision apiSurface) []string {
	var breaks []string

	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			breaks = append(breaks, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseResponses := range baseOps {
			revResponses, ok := revOps[method]
			if !ok {
				breaks = append(breaks, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}

			for code := range baseResponses {
				if _, ok := revResponses[code]; !ok {
					breaks = append(breaks, fmt.Sprintf(
						"removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code),
					))
				}
			}
		}
	}

	sort.Strings(breaks)
	return breaks
}
