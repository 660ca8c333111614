package models

// SiteConfig is the single global document (site_config/global) that
// gates checkout verification modes and drives storefront chrome. It is
// read per checkout request and passed into the mode selector as a
// snapshot, never consulted again mid-flow.
type SiteConfig struct {
	AdvanceRequired bool   `json:"advanceRequired" bson:"advanceRequired"`
	NIDRequired     bool   `json:"nidRequired" bson:"nidRequired"`
	CODEnabled      bool   `json:"codEnabled" bson:"codEnabled"`
	BannerVisible   bool   `json:"bannerVisible" bson:"bannerVisible"`
	BannerText      string `json:"bannerText" bson:"bannerText"`
	BannerType      string `json:"bannerType" bson:"bannerType"` // info, success, warning, error
	MetaTitle       string `json:"metaTitle" bson:"metaTitle"`
	MetaDescription string `json:"metaDescription" bson:"metaDescription"`
	ContactPhone    string `json:"contactPhone" bson:"contactPhone"`
	TelegramLink    string `json:"telegramLink" bson:"telegramLink"`
	WhatsappLink    string `json:"whatsappLink" bson:"whatsappLink"`
}
