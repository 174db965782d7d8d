package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingapp "stayfinder/internal/app/booking"
	domainbooking "stayfinder/internal/domain/booking"
)

type BookingHandler struct {
	Service *bookingapp.Service
	Logger  *slog.Logger
}

type createBookingRequest struct {
	ListingID      string    `json:"listingId"`
	CheckInDate    time.Time `json:"checkInDate"`
	CheckOutDate   time.Time `json:"checkOutDate"`
	NumberOfGuests int       `json:"numberOfGuests"`
}

type bookingResponse struct {
	ID             string                  `json:"id"`
	ListingID      string                  `json:"listingId"`
	UserID         string                  `json:"userId"`
	CheckInDate    time.Time               `json:"checkInDate"`
	CheckOutDate   time.Time               `json:"checkOutDate"`
	NumberOfGuests int                     `json:"numberOfGuests"`
	TotalPrice     float64                 `json:"totalPrice"`
	Status         string                  `json:"status"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
	Listing        *listingSummaryResponse `json:"listing,omitempty"`
}

type listingSummaryResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	Images        []string `json:"images"`
	PricePerNight float64  `json:"pricePerNight"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bk, err := h.Service.Create(c.Request.Context(), p.ID, bookingapp.CreateParams{
		ListingID:      req.ListingID,
		CheckInDate:    req.CheckInDate,
		CheckOutDate:   req.CheckOutDate,
		NumberOfGuests: req.NumberOfGuests,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingResponse(bk, nil))
}

func (h BookingHandler) MyBookings(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ForGuest(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	result := make([]bookingResponse, 0, len(bookings))
	for _, entry := range bookings {
		result = append(result, newBookingResponse(entry.Booking, entry.Listing))
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	entry, err := h.Service.ByID(c.Request.Context(), p.ID, domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newBookingResponse(entry.Booking, entry.Listing))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	bk, err := h.Service.Cancel(c.Request.Context(), p.ID, domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "booking cancelled successfully",
		"booking": newBookingResponse(bk, nil),
	})
}

func newBookingResponse(bk *domainbooking.Booking, summary *bookingapp.ListingSummary) bookingResponse {
	resp := bookingResponse{
		ID:             string(bk.ID),
		ListingID:      string(bk.ListingID),
		UserID:         string(bk.GuestID),
		CheckInDate:    bk.Range.CheckIn,
		CheckOutDate:   bk.Range.CheckOut,
		NumberOfGuests: bk.NumberOfGuests,
		TotalPrice:     bk.TotalPrice,
		Status:         string(bk.Status),
		CreatedAt:      bk.CreatedAt,
		UpdatedAt:      bk.UpdatedAt,
	}
	if summary != nil {
		resp.Listing = &listingSummaryResponse{
			ID:            string(summary.ID),
			Title:         summary.Title,
			Location:      summary.Location,
			Images:        summary.Images,
			PricePerNight: summary.PricePerNight,
		}
	}
	return resp
}

var _ BookingHTTP = BookingHandler{}
