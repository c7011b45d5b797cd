package main

import (
	"html/template"
	"path/filepath"
)

// LoadTemplates parses the HTML templates for the guide pages
func LoadTemplates() *template.Template {
	tmpl := template.New("")
	files, err := filepath.Glob("templates/*.html")
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		tmpl = template.Must(tmpl.ParseFiles(f))
	}
	return tmpl
}
