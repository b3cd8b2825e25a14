package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/config"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/tarot"
	"github.com/mystic/tarotconstellation/utils"
)

const (
	appConfigCacheKey = "catalog:app_config"
	cardsCacheKey     = "catalog:tarot_cards"
	catalogCacheTTL   = time.Hour
)

// CatalogController serves the static-ish catalog surfaces: app config,
// the card deck and ad-hoc card draws.
type CatalogController struct {
	db *gorm.DB
}

// NewCatalogController creates a new controller instance.
func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{db: db}
}

// GetAppConfig returns app metadata, the reading menu catalog and card styles.
// The payload changes rarely, so it is cached in Redis.
func (c *CatalogController) GetAppConfig(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(appConfigCacheKey); ok {
		var cached interface{}
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var menus []models.Menu
	if err := c.db.Where("is_active = ?", true).
		Order("position ASC").Find(&menus).Error; err != nil {
		utils.Sugar.Errorw("menu catalog load failed", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, "failed to load app config")
		return
	}

	cfg := config.Get()
	payload := gin.H{
		"app": gin.H{
			"signupBonusCoins": cfg.SignupBonusCoins,
			"adRewardCoins":    cfg.AdRewardCoins,
			"adDailyLimit":     cfg.AdDailyLimit,
			"deckSize":         tarot.DeckSize,
		},
		"menus":  menus,
		"styles": tarot.Styles(),
	}

	utils.CacheSetJSON(appConfigCacheKey, payload, catalogCacheTTL)
	utils.Success(ctx, payload)
}

type cardView struct {
	tarot.Card
	Images map[string]string `json:"images"`
}

// GetTarotCards returns the full deck with per-style image URLs.
func (c *CatalogController) GetTarotCards(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(cardsCacheKey); ok {
		var cached interface{}
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	cfg := config.Get()
	styles := tarot.Styles()
	cards := make([]cardView, 0, tarot.DeckSize)
	for _, card := range tarot.Deck() {
		images := make(map[string]string, len(styles))
		for _, s := range styles {
			images[s.ID] = tarot.CardImageURL(cfg.CardImageBaseURL, card, s.ID)
		}
		cards = append(cards, cardView{Card: card, Images: images})
	}

	payload := gin.H{"cards": cards, "total": len(cards)}
	utils.CacheSetJSON(cardsCacheKey, payload, catalogCacheTTL)
	utils.Success(ctx, payload)
}

// DrawCards performs a stateless draw outside of any paid reading, for
// previews and free play.
func (c *CatalogController) DrawCards(ctx *gin.Context) {
	count := 3
	if v := ctx.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < tarot.MinDrawCount || n > tarot.MaxDrawCount {
			utils.Error(ctx, http.StatusBadRequest, "count must be between 1 and 10")
			return
		}
		count = n
	}

	style := ctx.DefaultQuery("style", "vintage")
	if !tarot.ValidStyle(style) {
		utils.Error(ctx, http.StatusBadRequest, "unknown card style")
		return
	}

	cards, err := tarot.Draw(count)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "count must be between 1 and 10")
		return
	}

	cfg := config.Get()
	type drawnView struct {
		tarot.DrawnCard
		ImageURL string `json:"imageUrl"`
	}
	out := make([]drawnView, len(cards))
	for i, d := range cards {
		out[i] = drawnView{DrawnCard: d, ImageURL: tarot.CardImageURL(cfg.CardImageBaseURL, d.Card, style)}
	}

	utils.Success(ctx, gin.H{
		"sessionId": uuid.NewString(),
		"style":     style,
		"cards":     out,
	})
}
