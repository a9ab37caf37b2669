// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Public routes.
const (
	RouteRoot     = "/"
	RouteServices = "/services"
	RouteProjects = "/projets"
	RouteArticles = "/actualites"
	RouteAbout    = "/a-propos"
	RouteContact  = "/contact"
	RouteSearch   = "/recherche"
	RouteLogin    = "/connexion"
	RouteLogout   = "/deconnexion"

	RouteParamSlug = "/{slug}"
	RouteParamID   = "/{id}"
)

// Admin routes.
const (
	RouteAdmin             = "/admin"
	RouteAdminArticles     = "/admin/articles"
	RouteAdminProjects     = "/admin/projets"
	RouteAdminServices     = "/admin/services"
	RouteAdminTestimonials = "/admin/temoignages"
	RouteAdminSlides       = "/admin/slides"
	RouteAdminMessages     = "/admin/messages"
	RouteAdminSettings     = "/admin/parametres"
	RouteAdminUsers        = "/admin/utilisateurs"
	RouteAdminActivity     = "/admin/parametres/activite"
)

// Redirect targets built from the route constants. The %d variants are
// fmt format strings taking an entity ID.
const (
	redirectLogin = RouteLogin
	redirectAdmin = RouteAdmin

	redirectAdminArticles   = RouteAdminArticles
	redirectAdminArticlesID = RouteAdminArticles + "/%d"

	redirectAdminProjects   = RouteAdminProjects
	redirectAdminProjectsID = RouteAdminProjects + "/%d"

	redirectAdminServices     = RouteAdminServices
	redirectAdminTestimonials = RouteAdminTestimonials
	redirectAdminSlides       = RouteAdminSlides
	redirectAdminMessages     = RouteAdminMessages
	redirectAdminSettings     = RouteAdminSettings
	redirectAdminUsers        = RouteAdminUsers
)

// Form value limits.
const (
	maxTitleLength   = 200
	maxSlugLength    = 200
	maxNameLength    = 100
	maxEmailLength   = 254
	maxSubjectLength = 200
	maxBodyLength    = 50_000

	// maxUploadSize bounds one multipart upload request.
	maxUploadSize = 20 << 20 // 20 MB
)
