package extractor

import (
	"strings"
)

// FeatureRule maps well known packages to a human readable feature tag
// a package ending with "/" matches every package under that prefix
type FeatureRule struct {
	Tag      string
	Packages []string
}

type FeatureTable []FeatureRule

// DefaultFeatureTable returns a fresh copy so callers can extend it safely
func DefaultFeatureTable() FeatureTable {
	return FeatureTable{
		{Tag: "Framework Components", Packages: []string{"react", "react-dom", "vue", "@angular/core", "svelte", "next", "nuxt", "solid-js", "preact"}},
		{Tag: "State Management", Packages: []string{"redux", "@reduxjs/toolkit", "zustand", "mobx", "recoil", "pinia", "vuex", "jotai"}},
		{Tag: "Routing", Packages: []string{"react-router", "react-router-dom", "vue-router", "@tanstack/react-router"}},
		{Tag: "API Integration", Packages: []string{"axios", "@tanstack/react-query", "swr", "graphql", "@apollo/client", "node-fetch", "requests", "httpx"}},
		{Tag: "Authentication System", Packages: []string{"next-auth", "passport", "@auth0/", "firebase", "@supabase/supabase-js", "jsonwebtoken", "bcrypt", "github.com/golang-jwt/jwt/v5", "pyjwt"}},
		{Tag: "Testing Framework", Packages: []string{"jest", "vitest", "mocha", "@testing-library/", "cypress", "@playwright/test", "pytest", "github.com/stretchr/testify", "phpunit/phpunit"}},
		{Tag: "Styling System", Packages: []string{"tailwindcss", "styled-components", "@emotion/react", "sass", "@mui/material", "bootstrap"}},
		{Tag: "Database Integration", Packages: []string{"prisma", "@prisma/client", "mongoose", "sequelize", "typeorm", "pg", "mysql2", "sqlalchemy", "diesel", "github.com/jackc/pgx/v5", "gorm.io/gorm"}},
		{Tag: "Real-time Updates", Packages: []string{"socket.io", "socket.io-client", "ws", "github.com/gorilla/websocket", "tokio-tungstenite"}},
		{Tag: "Form Validation", Packages: []string{"react-hook-form", "formik", "zod", "yup", "github.com/go-playground/validator/v10", "pydantic"}},
		{Tag: "Data Visualization", Packages: []string{"chart.js", "recharts", "d3", "echarts", "matplotlib"}},
		{Tag: "Internationalization", Packages: []string{"i18next", "react-i18next", "vue-i18n"}},
		{Tag: "Backend API", Packages: []string{"express", "fastify", "koa", "@nestjs/core", "django", "flask", "fastapi", "github.com/gin-gonic/gin", "github.com/go-chi/chi/v5", "actix-web", "axum", "laravel/framework"}},
	}
}

func (r FeatureRule) matches(dependency string) bool {
	for _, pkg := range r.Packages {
		if strings.HasSuffix(pkg, "/") {
			if strings.HasPrefix(dependency, pkg) {
				return true
			}
			continue
		}

		if dependency == pkg {
			return true
		}
	}

	return false
}

// Match returns the tags of every rule matching at least one dependency, each tag at most once
func (t FeatureTable) Match(dependencies []string) []string {
	seen := map[string]bool{}
	tags := make([]string, 0)

	for _, rule := range t {
		if seen[rule.Tag] {
			continue
		}

		for _, dep := range dependencies {
			if rule.matches(strings.ToLower(dep)) {
				seen[rule.Tag] = true
				tags = append(tags, rule.Tag)
				break
			}
		}
	}

	return tags
}
