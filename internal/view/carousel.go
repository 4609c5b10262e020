package view

// DefaultCarouselPageSize is the number of cards per carousel page
const DefaultCarouselPageSize = 6

// CarouselState is the client-side page position of one home row.
// Page always stays within [0, LastPage()].
type CarouselState struct {
	Page     int
	Total    int
	PageSize int
}

// NewCarousel starts a row of total cards at page 0
func NewCarousel(total, pageSize int) CarouselState {
	if pageSize <= 0 {
		pageSize = DefaultCarouselPageSize
	}
	if total < 0 {
		total = 0
	}
	return CarouselState{Total: total, PageSize: pageSize}
}

// LastPage is ceil(Total/PageSize)-1, or 0 for an empty row
func (c CarouselState) LastPage() int {
	if c.Total == 0 || c.PageSize <= 0 {
		return 0
	}
	return (c.Total+c.PageSize-1)/c.PageSize - 1
}

func (c CarouselState) CanPrev() bool { return c.Page > 0 }
func (c CarouselState) CanNext() bool { return c.Page < c.LastPage() }

// Next steps one page right; a no-op on the last page
func (c CarouselState) Next() CarouselState {
	if c.CanNext() {
		c.Page++
	}
	return c
}

// Prev steps one page left; a no-op on the first page
func (c CarouselState) Prev() CarouselState {
	if c.CanPrev() {
		c.Page--
	}
	return c
}

// Window returns the [start, end) card range of the current page
func (c CarouselState) Window() (int, int) {
	start := c.Page * c.PageSize
	end := start + c.PageSize
	if end > c.Total {
		end = c.Total
	}
	if start > end {
		start = end
	}
	return start, end
}
