package g2bulk

import "encoding/json"

// AccountInfo is the /getMe response.
type AccountInfo struct {
	Success bool    `json:"success"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Balance float64 `json:"balance"`
	Message string  `json:"message,omitempty"`
}

// Game is one direct top-up title.
type Game struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// GamesResponse is the /games listing.
type GamesResponse struct {
	Success bool   `json:"success"`
	Games   []Game `json:"games"`
	Message string `json:"message,omitempty"`
}

// Catalogue is one purchasable denomination of a game.
type Catalogue struct {
	ID     json.Number `json:"id"`
	Name   string      `json:"name"`
	Amount json.Number `json:"amount"`
}

// CatalogueResponse is the /games/{code}/catalogue listing.
type CatalogueResponse struct {
	Success    bool        `json:"success"`
	Catalogues []Catalogue `json:"catalogues"`
	Message    string      `json:"message,omitempty"`
}

// Product is one voucher/card/key listing.
type Product struct {
	ID            json.Number `json:"id"`
	Title         string      `json:"title"`
	UnitPrice     json.Number `json:"unit_price"`
	Stock         int         `json:"stock"`
	CategoryTitle string      `json:"category_title,omitempty"`
}

// ProductsResponse is the /products listing.
type ProductsResponse struct {
	Success  bool      `json:"success"`
	Products []Product `json:"products"`
	Message  string    `json:"message,omitempty"`
}

// CheckPlayerResponse covers the authenticated checkPlayerId endpoint. The
// upstream wraps results inconsistently: the outcome may arrive as success,
// status, or inside data, and the nickname under several field names.
type CheckPlayerResponse struct {
	Success  *bool           `json:"success,omitempty"`
	Status   *bool           `json:"status,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Username string          `json:"username,omitempty"`
	Nick     string          `json:"nickname,omitempty"`
	Name     string          `json:"name,omitempty"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// OK reports whether any of the success wrappers signalled success.
func (r *CheckPlayerResponse) OK() bool {
	if r.Success != nil && *r.Success {
		return true
	}
	if r.Status != nil && *r.Status {
		return true
	}
	return len(r.Data) > 0 && r.Error == "" && r.Message == ""
}

// Nickname extracts the player display name from whichever field the
// upstream used, including the data wrapper.
func (r *CheckPlayerResponse) Nickname() string {
	for _, v := range []string{r.Username, r.Nick, r.Name} {
		if v != "" {
			return v
		}
	}
	if len(r.Data) > 0 {
		var inner struct {
			Username string `json:"username"`
			Nickname string `json:"nickname"`
			Name     string `json:"name"`
		}
		if err := json.Unmarshal(r.Data, &inner); err == nil {
			for _, v := range []string{inner.Username, inner.Nickname, inner.Name} {
				if v != "" {
					return v
				}
			}
		}
	}
	return ""
}

// ErrorText returns the upstream error message, if any.
func (r *CheckPlayerResponse) ErrorText() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// CheckPlayerPublicResponse is the public checkPlayerIdPublic shape.
type CheckPlayerPublicResponse struct {
	Valid   string `json:"valid"`
	Name    string `json:"name"`
	OpenID  string `json:"openid,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK reports a verified player: valid == "valid" plus a non-empty name.
func (r *CheckPlayerPublicResponse) OK() bool {
	return r.Valid == "valid" && r.Name != ""
}

// OrderRequest describes a game top-up order to place.
type OrderRequest struct {
	CatalogueName string
	PlayerID      string
	ServerID      string
	Remark        string
}

// OrderResponse is the result of placing a game order.
type OrderResponse struct {
	Success bool        `json:"success"`
	OrderID json.Number `json:"order_id"`
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// ErrorText returns the upstream error message, if any.
func (r *OrderResponse) ErrorText() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Detail
}

// OrderStatusResponse is the result of a game order status check.
type OrderStatusResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
