package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/database/progress"
	"github.com/ozcano/wordpost/internal/entities"
)

// streakWindowDays bounds how far back the streak calculation looks.
const streakWindowDays = 30

// ProgressController serves per-user mastery tracking endpoints.
type ProgressController struct {
	progress *progress.Repository
}

func NewProgressController(progressRepo *progress.Repository) *ProgressController {
	return &ProgressController{progress: progressRepo}
}

type recordReviewRequest struct {
	MasteryLevel *int `json:"mastery_level" binding:"required"`
}

func (p *ProgressController) RecordReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	wordID, ok := parseIDParam(c, "wordId")
	if !ok {
		return
	}

	var req recordReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "mastery_level is required")
		return
	}

	if err := p.progress.Upsert(userID, wordID, *req.MasteryLevel); err != nil {
		respondInternalError(c, err, "record review")
		return
	}

	level, _, err := p.progress.MasteryLevel(userID, wordID)
	if err != nil {
		respondInternalError(c, err, "reload progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Progress updated",
		"word_id":       wordID,
		"mastery_level": level,
	})
}

func (p *ProgressController) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	total, breakdown, err := p.progress.Stats(userID)
	if err != nil {
		respondInternalError(c, err, "progress stats")
		return
	}

	recent, err := p.progress.RecentActivity(userID, 10)
	if err != nil {
		respondInternalError(c, err, "recent activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_words":       total,
		"mastery_breakdown": breakdown,
		"recent_activity":   recent,
	})
}

func (p *ProgressController) WordsByMastery(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	level, err := strconv.Atoi(c.Param("masteryLevel"))
	if err != nil || level < entities.MasteryMin || level > entities.MasteryMax {
		respondBadRequest(c, "invalid mastery level")
		return
	}

	records, err := p.progress.WordsByMastery(userID, level)
	if err != nil {
		respondInternalError(c, err, "words by mastery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"words": records})
}

func (p *ProgressController) Streak(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	since := now.AddDate(0, 0, -streakWindowDays)
	times, err := p.progress.ReviewTimes(userID, since)
	if err != nil {
		respondInternalError(c, err, "review times")
		return
	}

	streak := currentStreak(times, now)
	c.JSON(http.StatusOK, gin.H{
		"current_streak": streak,
		"active_days":    len(reviewDates(times)),
	})
}

// currentStreak counts consecutive days with review activity ending today or
// yesterday. A streak broken today still counts through yesterday so users
// keep their run until the day is over.
func currentStreak(times []time.Time, now time.Time) int {
	dates := reviewDates(times)
	if len(dates) == 0 {
		return 0
	}

	day := now
	if !dates[day.Format(entities.WordSetDateLayout)] {
		day = day.AddDate(0, 0, -1)
		if !dates[day.Format(entities.WordSetDateLayout)] {
			return 0
		}
	}

	streak := 0
	for dates[day.Format(entities.WordSetDateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func reviewDates(times []time.Time) map[string]bool {
	dates := make(map[string]bool, len(times))
	for _, t := range times {
		dates[t.Format(entities.WordSetDateLayout)] = true
	}
	return dates
}
