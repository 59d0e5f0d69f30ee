package models

import (
	"github.com/umorjyoti/trip-sub006/internal/apperr"
)

// SettingsKey is the value of the unique key carried by the one settings document.
const SettingsKey = "global"

// Settings is the site-wide configuration singleton.
type Settings struct {
	Base               `bson:",inline"`
	Key                string        `bson:"key" json:"-"`
	EnquiryBanner      EnquiryBanner `bson:"enquiryBanner" json:"enquiryBanner"`
	LandingPage        PageHero      `bson:"landingPage" json:"landingPage"`
	BlogPage           PageHero      `bson:"blogPage" json:"blogPage"`
	WeekendGetawayPage PageHero      `bson:"weekendGetawayPage" json:"weekendGetawayPage"`
}

// EnquiryBanner is the promotional banner shown next to the enquiry form.
type EnquiryBanner struct {
	IsActive     bool   `bson:"isActive" json:"isActive"`
	Title        string `bson:"title" json:"title"`
	Subtitle     string `bson:"subtitle" json:"subtitle"`
	Header       string `bson:"header" json:"header"`
	DiscountText string `bson:"discountText" json:"discountText"`
	Image        string `bson:"image" json:"image"`
	ShowOverlay  bool   `bson:"showOverlay" json:"showOverlay"`
}

// PageHero is the hero block of a public page.
type PageHero struct {
	HeroImage    string `bson:"heroImage" json:"heroImage"`
	HeroTitle    string `bson:"heroTitle" json:"heroTitle"`
	HeroSubtitle string `bson:"heroSubtitle" json:"heroSubtitle"`
}

// DefaultSettings returns the values a freshly created settings document starts with.
func DefaultSettings() Settings {
	return Settings{
		Key: SettingsKey,
		EnquiryBanner: EnquiryBanner{
			IsActive:     true,
			Title:        "Plan Your Next Adventure",
			Subtitle:     "Talk to our trek experts and get a custom itinerary",
			Header:       "Limited Period Offer",
			DiscountText: "Flat 10% Off",
			ShowOverlay:  true,
		},
		LandingPage: PageHero{
			HeroTitle:    "Discover the Himalayas",
			HeroSubtitle: "Handpicked treks for every kind of explorer",
		},
		BlogPage: PageHero{
			HeroTitle:    "Stories from the Trail",
			HeroSubtitle: "Guides, tips and tales from our trek leaders",
		},
		WeekendGetawayPage: PageHero{
			HeroTitle:    "Weekend Getaways",
			HeroSubtitle: "Short escapes, big mountains",
		},
	}
}

func (b EnquiryBanner) validate(v *apperr.ValidationError, prefix string) {
	checkMaxLen(v, prefix+".title", b.Title, 100)
	checkMaxLen(v, prefix+".subtitle", b.Subtitle, 200)
	checkMaxLen(v, prefix+".header", b.Header, 60)
	checkMaxLen(v, prefix+".discountText", b.DiscountText, 60)
	checkOptionalImage(v, prefix+".image", b.Image)
}

func (p PageHero) validate(v *apperr.ValidationError, prefix string) {
	checkOptionalImage(v, prefix+".heroImage", p.HeroImage)
	checkMaxLen(v, prefix+".heroTitle", p.HeroTitle, 120)
	checkMaxLen(v, prefix+".heroSubtitle", p.HeroSubtitle, 250)
}

// Validate checks every group against its field constraints.
func (s *Settings) Validate() error {
	v := &apperr.ValidationError{}
	s.EnquiryBanner.validate(v, "enquiryBanner")
	s.LandingPage.validate(v, "landingPage")
	s.BlogPage.validate(v, "blogPage")
	s.WeekendGetawayPage.validate(v, "weekendGetawayPage")
	return v.OrNil()
}

// EnquiryBannerPatch holds the banner keys present in an update request.
type EnquiryBannerPatch struct {
	IsActive     *bool   `json:"isActive,omitempty"`
	Title        *string `json:"title,omitempty"`
	Subtitle     *string `json:"subtitle,omitempty"`
	Header       *string `json:"header,omitempty"`
	DiscountText *string `json:"discountText,omitempty"`
	Image        *string `json:"image,omitempty"`
	ShowOverlay  *bool   `json:"showOverlay,omitempty"`
}

// PageHeroPatch holds the hero keys present in an update request.
type PageHeroPatch struct {
	HeroImage    *string `json:"heroImage,omitempty"`
	HeroTitle    *string `json:"heroTitle,omitempty"`
	HeroSubtitle *string `json:"heroSubtitle,omitempty"`
}

// SettingsPatch is a partial update. Nil groups and nil keys are left untouched.
type SettingsPatch struct {
	EnquiryBanner      *EnquiryBannerPatch `json:"enquiryBanner,omitempty"`
	LandingPage        *PageHeroPatch      `json:"landingPage,omitempty"`
	BlogPage           *PageHeroPatch      `json:"blogPage,omitempty"`
	WeekendGetawayPage *PageHeroPatch      `json:"weekendGetawayPage,omitempty"`
}

// ValidateAgainst checks the groups the patch touches, as they look in merged.
func (p *SettingsPatch) ValidateAgainst(merged *Settings) error {
	v := &apperr.ValidationError{}
	if p.EnquiryBanner != nil {
		merged.EnquiryBanner.validate(v, "enquiryBanner")
	}
	if p.LandingPage != nil {
		merged.LandingPage.validate(v, "landingPage")
	}
	if p.BlogPage != nil {
		merged.BlogPage.validate(v, "blogPage")
	}
	if p.WeekendGetawayPage != nil {
		merged.WeekendGetawayPage.validate(v, "weekendGetawayPage")
	}
	return v.OrNil()
}

// IsEmpty reports whether the patch names no key at all.
func (p *SettingsPatch) IsEmpty() bool {
	return len(p.SetFields()) == 0
}

// Apply merges the patch into s, one group at a time.
func (p *SettingsPatch) Apply(s *Settings) {
	if b := p.EnquiryBanner; b != nil {
		setBool(&s.EnquiryBanner.IsActive, b.IsActive)
		setString(&s.EnquiryBanner.Title, b.Title)
		setString(&s.EnquiryBanner.Subtitle, b.Subtitle)
		setString(&s.EnquiryBanner.Header, b.Header)
		setString(&s.EnquiryBanner.DiscountText, b.DiscountText)
		setString(&s.EnquiryBanner.Image, b.Image)
		setBool(&s.EnquiryBanner.ShowOverlay, b.ShowOverlay)
	}
	p.LandingPage.apply(&s.LandingPage)
	p.BlogPage.apply(&s.BlogPage)
	p.WeekendGetawayPage.apply(&s.WeekendGetawayPage)
}

// SetFields returns the dotted document paths named by the patch with their new values.
func (p *SettingsPatch) SetFields() map[string]interface{} {
	out := map[string]interface{}{}
	if b := p.EnquiryBanner; b != nil {
		putBool(out, "enquiryBanner.isActive", b.IsActive)
		putString(out, "enquiryBanner.title", b.Title)
		putString(out, "enquiryBanner.subtitle", b.Subtitle)
		putString(out, "enquiryBanner.header", b.Header)
		putString(out, "enquiryBanner.discountText", b.DiscountText)
		putString(out, "enquiryBanner.image", b.Image)
		putBool(out, "enquiryBanner.showOverlay", b.ShowOverlay)
	}
	p.LandingPage.put(out, "landingPage")
	p.BlogPage.put(out, "blogPage")
	p.WeekendGetawayPage.put(out, "weekendGetawayPage")
	return out
}

func (h *PageHeroPatch) apply(dst *PageHero) {
	if h == nil {
		return
	}
	setString(&dst.HeroImage, h.HeroImage)
	setString(&dst.HeroTitle, h.HeroTitle)
	setString(&dst.HeroSubtitle, h.HeroSubtitle)
}

func (h *PageHeroPatch) put(out map[string]interface{}, group string) {
	if h == nil {
		return
	}
	putString(out, group+".heroImage", h.HeroImage)
	putString(out, group+".heroTitle", h.HeroTitle)
	putString(out, group+".heroSubtitle", h.HeroSubtitle)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func putString(out map[string]interface{}, path string, v *string) {
	if v != nil {
		out[path] = *v
	}
}

func putBool(out map[string]interface{}, path string, v *bool) {
	if v != nil {
		out[path] = *v
	}
}
