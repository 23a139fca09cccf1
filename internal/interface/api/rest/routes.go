package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth    = RouteApiV1 + "/auth"
	RouteSignIn  = RouteAuth + "/sign-in"
	RouteSignOut = RouteAuth + "/sign-out"
	RouteSession = RouteAuth + "/session"

	// gallery
	RouteGallery             = RouteApiV1 + "/gallery/:kind"
	RouteGalleryReload       = RouteGallery + "/reload"
	RouteGalleryFilter       = RouteGallery + "/filter"
	RouteGalleryPage         = RouteGallery + "/page"
	RouteGalleryItemsPerPage = RouteGallery + "/items-per-page"
	RouteGalleryFiles        = RouteGallery + "/files"
	RouteGalleryPosition     = RouteGallery + "/positions/:index"
	RouteGalleryContent      = RouteGallery + "/content"
	RouteActivity            = RouteApiV1 + "/activity"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
