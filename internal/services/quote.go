package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/gate"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/export"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/pdf"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/internal/quoteview"
	"github.com/diewo77/offermaster/internal/storage"
	"github.com/diewo77/offermaster/validation"
)

var (
	minDiscount = decimal.Zero
	maxDiscount = decimal.NewFromInt(100)
)

// QuoteItemInput is one requested line of a new quote.
type QuoteItemInput struct {
	ArticleID uint `json:"articleId"`
	Quantity  int  `json:"quantity"`
}

// CreateQuoteInput is the body of a quote submission.
type CreateQuoteInput struct {
	Items       []QuoteItemInput `json:"items"`
	LogoBase64  string           `json:"logoBase64,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	ProjectID   *uint            `json:"projectId,omitempty"`
	Description string           `json:"description,omitempty"`
}

func (in CreateQuoteInput) validate() error {
	v := validation.Violations{}
	if len(in.Items) == 0 {
		v["items"] = "empty_quote"
	}
	for i, it := range in.Items {
		validation.PositiveInt(fmt.Sprintf("items[%d].quantity", i), it.Quantity, v)
		if it.ArticleID == 0 {
			v[fmt.Sprintf("items[%d].articleId", i)] = "required"
		}
	}
	if in.Discount != nil {
		validation.RangeDecimal("discount", *in.Discount, minDiscount, maxDiscount, v)
	}
	validation.MaxLen("description", in.Description, 2000, v)
	return invalid(v)
}

// QuoteSummary is a quote with its total priced against the current catalog.
type QuoteSummary struct {
	models.Quote
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// QuoteService creates quotes and renders them for display, download and email.
type QuoteService struct {
	DB       *gorm.DB
	Articles *ArticleService
	Store    storage.Store
	Mail     mailer.Sender
	Gate     *policy.AuthGate
}

func NewQuoteService(db *gorm.DB, store storage.Store, mail mailer.Sender, g *policy.AuthGate) *QuoteService {
	return &QuoteService{DB: db, Articles: NewArticleService(db), Store: store, Mail: mail, Gate: g}
}

func (s *QuoteService) owned(ctx context.Context, uid uint) *gorm.DB {
	return s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("user_id = ?", uid)
}

// Quotes returns every quote of the current user, in storage order.
func (s *QuoteService) Quotes(ctx context.Context) ([]models.Quote, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	var quotes []models.Quote
	if err := s.owned(ctx, uid).Order("id").Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	return quotes, nil
}

// Display returns the user's quotes filtered and sorted for the list screen,
// each with its computed total.
func (s *QuoteService) Display(ctx context.Context, f quoteview.Filter, srt quoteview.Sort) ([]QuoteSummary, error) {
	quotes, err := s.Quotes(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Articles.All(ctx)
	if err != nil {
		return nil, err
	}
	catalog := quoteview.NewCatalog(products)
	shown := quoteview.DisplayQuotes(quotes, products, f, srt)
	out := make([]QuoteSummary, len(shown))
	for i, q := range shown {
		out[i] = QuoteSummary{Quote: q, TotalAmount: catalog.DiscountedTotal(q)}
	}
	return out, nil
}

// Get loads one quote. Someone else's quote yields ErrForbidden.
func (s *QuoteService) Get(ctx context.Context, id uint) (*models.Quote, error) {
	return s.load(ctx, id, gate.ActionView)
}

func (s *QuoteService) load(ctx context.Context, id uint, action gate.Action) (*models.Quote, error) {
	var q models.Quote
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.Gate.Authorize(ctx, action, policy.ResourceQuote, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Summary is Get plus the computed total.
func (s *QuoteService) Summary(ctx context.Context, id uint) (*QuoteSummary, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.Articles.All(ctx)
	if err != nil {
		return nil, err
	}
	return &QuoteSummary{Quote: *q, TotalAmount: quoteview.ComputeDiscountedTotal(*q, products)}, nil
}

// Create validates and stores a quote for the current user. An inline logo is
// uploaded first and removed again if the quote cannot be stored.
func (s *QuoteService) Create(ctx context.Context, in CreateQuoteInput) (*models.Quote, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := s.checkArticles(ctx, in.Items); err != nil {
		return nil, err
	}
	if in.ProjectID != nil {
		if _, err := loadProject(ctx, s.DB, s.Gate, *in.ProjectID, gate.ActionUpdate); err != nil {
			return nil, err
		}
	}

	q := models.Quote{UserID: uid, ProjectID: in.ProjectID, Description: in.Description}
	if in.Discount != nil {
		q.Discount = *in.Discount
	}
	for i, it := range in.Items {
		q.Items = append(q.Items, models.QuoteItem{Position: i, ProductID: it.ArticleID, Quantity: it.Quantity})
	}
	if in.LogoBase64 != "" {
		key, url, err := upload(ctx, s.Store, "logos", in.LogoBase64, "logoBase64")
		if err != nil {
			return nil, err
		}
		q.LogoKey, q.LogoURL = key, url
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&q).Error
	})
	if err != nil {
		if q.LogoKey != "" {
			_ = s.Store.Delete(context.WithoutCancel(ctx), q.LogoKey)
		}
		return nil, fmt.Errorf("create quote: %w", err)
	}
	return &q, nil
}

func (s *QuoteService) checkArticles(ctx context.Context, items []QuoteItemInput) error {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, it := range items {
		if !seen[it.ArticleID] {
			seen[it.ArticleID] = true
			ids = append(ids, it.ArticleID)
		}
	}
	var found int64
	if err := s.DB.WithContext(ctx).Model(&models.Article{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return fmt.Errorf("check articles: %w", err)
	}
	if int(found) != len(ids) {
		return &ReferenceError{Field: "items", Code: "unknown_article"}
	}
	return nil
}

// Document prices a quote for printing and attaches its logo when stored.
func (s *QuoteService) Document(ctx context.Context, id uint, lang string) (*pdf.QuoteDocument, error) {
	return s.document(ctx, id, lang, gate.ActionView)
}

func (s *QuoteService) document(ctx context.Context, id uint, lang string, action gate.Action) (*pdf.QuoteDocument, error) {
	q, err := s.load(ctx, id, action)
	if err != nil {
		return nil, err
	}
	products, err := s.Articles.All(ctx)
	if err != nil {
		return nil, err
	}
	doc := pdf.BuildQuoteDocument(*q, products)
	doc.Lang = lang
	if q.LogoKey != "" {
		logo, err := s.Store.Get(ctx, q.LogoKey)
		if err != nil {
			logger.FromContext(ctx).Warn("quote logo unavailable", zap.Uint("quote_id", q.ID), zap.Error(err))
		} else {
			doc.Logo, doc.LogoType = logo, http.DetectContentType(logo)
		}
	}
	return &doc, nil
}

// PDF renders the quote document.
func (s *QuoteService) PDF(ctx context.Context, id uint, lang string) ([]byte, error) {
	doc, err := s.Document(ctx, id, lang)
	if err != nil {
		return nil, err
	}
	return render(id, doc)
}

func render(id uint, doc *pdf.QuoteDocument) ([]byte, error) {
	out, err := pdf.RenderQuote(*doc)
	if err != nil {
		return nil, fmt.Errorf("render quote %d: %w", id, err)
	}
	return out, nil
}

// Email renders the quote and mails it to recipient. An empty name falls back
// to a generic salutation.
func (s *QuoteService) Email(ctx context.Context, id uint, recipient, name, lang string) error {
	v := validation.Violations{}
	validation.Required("recipientEmail", recipient, v)
	validation.Email("recipientEmail", recipient, v)
	if err := invalid(v); err != nil {
		return err
	}
	doc, err := s.document(ctx, id, lang, gate.ActionSend)
	if err != nil {
		return err
	}
	body, err := render(id, doc)
	if err != nil {
		return err
	}
	if name == "" {
		name = i18n.T(lang, "default_recipient")
	}
	sender := "OfferMaster"
	if uid, err := currentUser(ctx); err == nil {
		var u models.User
		if s.DB.WithContext(ctx).First(&u, uid).Error == nil && u.FullName() != "" {
			sender = u.FullName()
		}
	}
	html, err := mailer.QuoteBody(name, id, sender)
	if err != nil {
		return fmt.Errorf("quote mail body: %w", err)
	}
	msg := mailer.Message{
		To:      recipient,
		ToName:  name,
		Subject: fmt.Sprintf(i18n.T(lang, "quote_subject"), id),
		HTML:    html,
		Attachments: []mailer.Attachment{{
			Name:        fmt.Sprintf("Ponuda-%d.pdf", id),
			ContentType: "application/pdf",
			Data:        body,
		}},
	}
	if err := s.Mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("send quote %d: %w", id, err)
	}
	return nil
}

// Export builds a workbook of the displayed quotes.
func (s *QuoteService) Export(ctx context.Context, f quoteview.Filter, srt quoteview.Sort) (*excelize.File, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	quotes, err := s.Quotes(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Articles.All(ctx)
	if err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := s.DB.WithContext(ctx).Where("user_id = ?", uid).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	names := make(map[uint]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return export.QuotesWorkbook(quoteview.DisplayQuotes(quotes, products, f, srt), products, names)
}

// upload stores an inline data URL and returns its object key and URL.
func upload(ctx context.Context, store storage.Store, prefix, raw, field string) (string, string, error) {
	up, err := storage.DecodeDataURL(raw)
	if err != nil {
		return "", "", invalid(validation.Violations{field: "invalid_image"})
	}
	key := storage.NewKey(prefix, up.ContentType)
	url, err := store.Put(ctx, key, up.Data, up.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("store %s: %w", prefix, err)
	}
	return key, url, nil
}
