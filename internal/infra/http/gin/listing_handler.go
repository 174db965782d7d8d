package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	listingapp "stayfinder/internal/app/listing"
	domainlisting "stayfinder/internal/domain/listing"
	domainuser "stayfinder/internal/domain/user"
)

const maxPhotoSizeBytes int64 = 10 * 1024 * 1024

type ListingHandler struct {
	Service *listingapp.Service
	Logger  *slog.Logger
}

type createListingRequest struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	PricePerNight  float64     `json:"pricePerNight"`
	Location       string      `json:"location"`
	Images         []string    `json:"images"`
	Amenities      []string    `json:"amenities"`
	MaxGuests      int         `json:"maxGuests"`
	Bedrooms       int         `json:"bedrooms"`
	Beds           int         `json:"beds"`
	Bathrooms      int         `json:"bathrooms"`
	AvailableDates []time.Time `json:"availableDates"`
}

type updateListingRequest struct {
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	PricePerNight  *float64    `json:"pricePerNight"`
	Location       *string     `json:"location"`
	Images         []string    `json:"images"`
	Amenities      []string    `json:"amenities"`
	MaxGuests      *int        `json:"maxGuests"`
	Bedrooms       *int        `json:"bedrooms"`
	Beds           *int        `json:"beds"`
	Bathrooms      *int        `json:"bathrooms"`
	AvailableDates []time.Time `json:"availableDates"`
}

type listingResponse struct {
	ID             string      `json:"id"`
	HostID         string      `json:"hostId"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Location       string      `json:"location"`
	PricePerNight  float64     `json:"pricePerNight"`
	Images         []string    `json:"images"`
	Amenities      []string    `json:"amenities"`
	MaxGuests      int         `json:"maxGuests"`
	Bedrooms       int         `json:"bedrooms"`
	Beds           int         `json:"beds"`
	Bathrooms      int         `json:"bathrooms"`
	AvailableDates []time.Time `json:"availableDates"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

type listingPageResponse struct {
	Listings []listingResponse `json:"listings"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int64             `json:"total"`
}

func (h ListingHandler) List(c *gin.Context) {
	page := parseIntWithDefault(c.Query("page"), 1)
	limit := parseIntWithDefault(c.Query("limit"), 10)
	result, err := h.Service.Page(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	listings := make([]listingResponse, 0, len(result.Listings))
	for _, lst := range result.Listings {
		listings = append(listings, newListingResponse(lst))
	}
	c.JSON(http.StatusOK, listingPageResponse{
		Listings: listings,
		Page:     result.Page,
		Pages:    result.Pages,
		Total:    result.Total,
	})
}

func (h ListingHandler) Get(c *gin.Context) {
	lst, err := h.Service.ByID(c.Request.Context(), domainlisting.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(lst))
}

func (h ListingHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHost)
	if !ok {
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lst, err := h.Service.Create(c.Request.Context(), p.ID, listingapp.CreateParams{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		PricePerNight:  req.PricePerNight,
		Images:         req.Images,
		Amenities:      req.Amenities,
		MaxGuests:      req.MaxGuests,
		Bedrooms:       req.Bedrooms,
		Beds:           req.Beds,
		Bathrooms:      req.Bathrooms,
		AvailableDates: req.AvailableDates,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, newListingResponse(lst))
}

func (h ListingHandler) Update(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHost)
	if !ok {
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lst, err := h.Service.Update(c.Request.Context(), p.ID, domainlisting.ID(c.Param("id")), domainlisting.UpdateParams{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		PricePerNight:  req.PricePerNight,
		Images:         req.Images,
		Amenities:      req.Amenities,
		MaxGuests:      req.MaxGuests,
		Bedrooms:       req.Bedrooms,
		Beds:           req.Beds,
		Bathrooms:      req.Bathrooms,
		AvailableDates: req.AvailableDates,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newListingResponse(lst))
}

func (h ListingHandler) Delete(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHost)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p.ID, domainlisting.ID(c.Param("id"))); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing removed"})
}

func (h ListingHandler) MyListings(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHost)
	if !ok {
		return
	}
	listings, err := h.Service.ByHost(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	result := make([]listingResponse, 0, len(listings))
	for _, lst := range listings {
		result = append(result, newListingResponse(lst))
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) UploadPhoto(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleHost)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()
	if header.Size > maxPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds the 10MB limit"})
		return
	}
	lst, err := h.Service.AddPhoto(c.Request.Context(), p.ID, domainlisting.ID(c.Param("id")),
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, newListingResponse(lst))
}

func newListingResponse(lst *domainlisting.Listing) listingResponse {
	return listingResponse{
		ID:             string(lst.ID),
		HostID:         string(lst.HostID),
		Title:          lst.Title,
		Description:    lst.Description,
		Location:       lst.Location,
		PricePerNight:  lst.PricePerNight,
		Images:         lst.Images,
		Amenities:      lst.Amenities,
		MaxGuests:      lst.MaxGuests,
		Bedrooms:       lst.Bedrooms,
		Beds:           lst.Beds,
		Bathrooms:      lst.Bathrooms,
		AvailableDates: lst.AvailableDates,
		CreatedAt:      lst.CreatedAt,
		UpdatedAt:      lst.UpdatedAt,
	}
}

func parseIntWithDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return def
	}
	return val
}

var _ ListingHTTP = ListingHandler{}
