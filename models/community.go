package models

type CommunityTip struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	DatePosted string `json:"datePosted"`
	Likes      int    `json:"likes"`
	Approved   bool   `json:"approved"`
}

type CommunityTipRequest struct {
	Title   string `json:"title" binding:"required,min=3"`
	Content string `json:"content" binding:"required,min=10"`
}

type Deal struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Store       string `json:"store"`
	Description string `json:"description"`
	Discount    string `json:"discount"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
	Approved    bool   `json:"approved"`
}

type DealRequest struct {
	Store       string `json:"store" binding:"required"`
	Description string `json:"description" binding:"required"`
	Discount    string `json:"discount" binding:"required"`
	ExpiryDate  string `json:"expiryDate" binding:"omitempty,datetime=2006-01-02"`
}
