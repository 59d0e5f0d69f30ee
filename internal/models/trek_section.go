package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
)

// SectionType tags which variant a TrekSection is.
type SectionType string

const (
	SectionTypeTrek   SectionType = "trek"
	SectionTypeBanner SectionType = "banner"
)

const DefaultOverlayOpacity = 0.5

// TrekSection is a curated homepage block: either an ordered list of treks or a
// promotional banner. Banner is set exactly when Type is SectionTypeBanner.
type TrekSection struct {
	Base         `bson:",inline"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description" json:"description"`
	Type         SectionType          `bson:"type" json:"type"`
	Treks        []primitive.ObjectID `bson:"treks" json:"treks"`
	DisplayOrder int                  `bson:"displayOrder" json:"displayOrder"`
	IsActive     bool                 `bson:"isActive" json:"isActive"`
	Banner       *BannerContent       `bson:"banner,omitempty" json:"banner,omitempty"`
}

// BannerContent is only meaningful on banner sections.
type BannerContent struct {
	BannerImage        string              `bson:"bannerImage" json:"bannerImage"`
	OverlayText        string              `bson:"overlayText" json:"overlayText"`
	OverlayColor       string              `bson:"overlayColor,omitempty" json:"overlayColor,omitempty"`
	TextColor          string              `bson:"textColor,omitempty" json:"textColor,omitempty"`
	OverlayOpacity     float64             `bson:"overlayOpacity" json:"overlayOpacity"`
	LinkToTrek         *primitive.ObjectID `bson:"linkToTrek,omitempty" json:"linkToTrek,omitempty"`
	CouponCode         string              `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	DiscountPercentage *float64            `bson:"discountPercentage,omitempty" json:"discountPercentage,omitempty"`
	MobileOptimized    bool                `bson:"mobileOptimized" json:"mobileOptimized"`
}

// NewTrekListSection builds an active list section over treks.
func NewTrekListSection(title string, treks []primitive.ObjectID) *TrekSection {
	if treks == nil {
		treks = []primitive.ObjectID{}
	}
	return &TrekSection{Title: title, Type: SectionTypeTrek, Treks: treks, IsActive: true}
}

// NewBannerSection builds an active banner section.
func NewBannerSection(title string, banner BannerContent) *TrekSection {
	return &TrekSection{Title: title, Type: SectionTypeBanner, Treks: []primitive.ObjectID{}, IsActive: true, Banner: &banner}
}

// IsBanner reports whether the section is the banner variant.
func (s *TrekSection) IsBanner() bool {
	return s.Type == SectionTypeBanner
}

// Validate enforces the schema and the variant rule.
func (s *TrekSection) Validate() error {
	v := &apperr.ValidationError{}
	if strings.TrimSpace(s.Title) == "" {
		v.Add("title", "is required")
	}
	switch s.Type {
	case SectionTypeTrek:
		if s.Banner != nil {
			v.Add("banner", "only banner sections carry banner content")
		}
	case SectionTypeBanner:
		if s.Banner == nil {
			v.Add("banner", "is required for banner sections")
		} else {
			s.Banner.validate(v)
		}
	default:
		v.Add("type", "must be %q or %q", SectionTypeTrek, SectionTypeBanner)
	}
	return v.OrNil()
}

func (b *BannerContent) validate(v *apperr.ValidationError) {
	if strings.TrimSpace(b.BannerImage) == "" {
		v.Add("banner.bannerImage", "is required")
	}
	if strings.TrimSpace(b.OverlayText) == "" {
		v.Add("banner.overlayText", "is required")
	}
	if b.OverlayColor != "" && !IsHexColor(b.OverlayColor) {
		v.Add("banner.overlayColor", "must be a hex colour such as #000000")
	}
	if b.TextColor != "" && !IsHexColor(b.TextColor) {
		v.Add("banner.textColor", "must be a hex colour such as #ffffff")
	}
	if b.OverlayOpacity < 0 || b.OverlayOpacity > 1 {
		v.Add("banner.overlayOpacity", "must be between 0 and 1")
	}
	if d := b.DiscountPercentage; d != nil && (*d < 0 || *d > 100) {
		v.Add("banner.discountPercentage", "must be between 0 and 100")
	}
}

// SectionInput is the request body for creating a section.
type SectionInput struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Type         SectionType          `json:"type"`
	Treks        []primitive.ObjectID `json:"treks"`
	DisplayOrder int                  `json:"displayOrder"`
	IsActive     *bool                `json:"isActive"`
	Banner       *BannerInput         `json:"banner"`
}

// BannerInput mirrors BannerContent with an optional opacity so the default can apply.
type BannerInput struct {
	BannerImage        string              `json:"bannerImage"`
	OverlayText        string              `json:"overlayText"`
	OverlayColor       string              `json:"overlayColor"`
	TextColor          string              `json:"textColor"`
	OverlayOpacity     *float64            `json:"overlayOpacity"`
	LinkToTrek         *primitive.ObjectID `json:"linkToTrek"`
	CouponCode         string              `json:"couponCode"`
	DiscountPercentage *float64            `json:"discountPercentage"`
	MobileOptimized    bool                `json:"mobileOptimized"`
}

// Content applies defaults and returns the stored form.
func (b *BannerInput) Content() BannerContent {
	opacity := DefaultOverlayOpacity
	if b.OverlayOpacity != nil {
		opacity = *b.OverlayOpacity
	}
	return BannerContent{
		BannerImage:        b.BannerImage,
		OverlayText:        b.OverlayText,
		OverlayColor:       b.OverlayColor,
		TextColor:          b.TextColor,
		OverlayOpacity:     opacity,
		LinkToTrek:         b.LinkToTrek,
		CouponCode:         b.CouponCode,
		DiscountPercentage: b.DiscountPercentage,
		MobileOptimized:    b.MobileOptimized,
	}
}

// ToSection builds the variant named by Type (default trek) and validates it.
func (in *SectionInput) ToSection() (*TrekSection, error) {
	var s *TrekSection
	switch in.Type {
	case "", SectionTypeTrek:
		s = NewTrekListSection(in.Title, in.Treks)
		if in.Banner != nil {
			return nil, apperr.Invalid("banner", "only banner sections carry banner content")
		}
	case SectionTypeBanner:
		if in.Banner == nil {
			return nil, apperr.Invalid("banner", "is required for banner sections")
		}
		s = NewBannerSection(in.Title, in.Banner.Content())
		if in.Treks != nil {
			s.Treks = in.Treks
		}
	default:
		return nil, apperr.Invalid("type", "must be %q or %q", SectionTypeTrek, SectionTypeBanner)
	}
	s.Description = in.Description
	s.DisplayOrder = in.DisplayOrder
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SectionUpdate carries the mutable fields of a section. Nil fields keep their stored value.
type SectionUpdate struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Treks        *[]primitive.ObjectID `json:"treks"`
	DisplayOrder *int                  `json:"displayOrder"`
	IsActive     *bool                 `json:"isActive"`
	Banner       *BannerPatch          `json:"banner"`
}

// BannerPatch updates banner content key by key. Nil keys keep the stored value;
// an empty string clears an optional one.
type BannerPatch struct {
	BannerImage        *string             `json:"bannerImage"`
	OverlayText        *string             `json:"overlayText"`
	OverlayColor       *string             `json:"overlayColor"`
	TextColor          *string             `json:"textColor"`
	OverlayOpacity     *float64            `json:"overlayOpacity"`
	LinkToTrek         *primitive.ObjectID `json:"linkToTrek"`
	CouponCode         *string             `json:"couponCode"`
	DiscountPercentage *float64            `json:"discountPercentage"`
	MobileOptimized    *bool               `json:"mobileOptimized"`
}

// Apply merges p into b.
func (p *BannerPatch) Apply(b *BannerContent) {
	setString(&b.BannerImage, p.BannerImage)
	setString(&b.OverlayText, p.OverlayText)
	setString(&b.OverlayColor, p.OverlayColor)
	setString(&b.TextColor, p.TextColor)
	if p.OverlayOpacity != nil {
		b.OverlayOpacity = *p.OverlayOpacity
	}
	if p.LinkToTrek != nil {
		id := *p.LinkToTrek
		b.LinkToTrek = &id
	}
	setString(&b.CouponCode, p.CouponCode)
	if p.DiscountPercentage != nil {
		d := *p.DiscountPercentage
		b.DiscountPercentage = &d
	}
	setBool(&b.MobileOptimized, p.MobileOptimized)
}

// Apply merges the update into s. Banner content is rejected on list sections by Validate.
func (u *SectionUpdate) Apply(s *TrekSection) {
	setString(&s.Title, u.Title)
	setString(&s.Description, u.Description)
	if u.Treks != nil {
		s.Treks = *u.Treks
		if s.Treks == nil {
			s.Treks = []primitive.ObjectID{}
		}
	}
	if u.DisplayOrder != nil {
		s.DisplayOrder = *u.DisplayOrder
	}
	setBool(&s.IsActive, u.IsActive)
	if u.Banner != nil {
		if s.Banner == nil {
			s.Banner = &BannerContent{OverlayOpacity: DefaultOverlayOpacity}
		}
		u.Banner.Apply(s.Banner)
	}
}

// PopulatedTrekSection is a section whose trek references were resolved.
type PopulatedTrekSection struct {
	TrekSection
	Treks []Trek `json:"treks"`
}

// Populate resolves s.Treks against byID in order, dropping ids that did not resolve.
func Populate(s TrekSection, byID map[primitive.ObjectID]Trek) PopulatedTrekSection {
	out := PopulatedTrekSection{TrekSection: s, Treks: make([]Trek, 0, len(s.Treks))}
	for _, id := range s.Treks {
		if t, ok := byID[id]; ok {
			out.Treks = append(out.Treks, t)
		}
	}
	return out
}
