package services

import (
	"errors"
	"fmt"

	"comic-publish-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ContentService holds the minimal comic/chapter/comment/rating operations
// the progression engine needs as touchpoints. Every point-earning action
// funnels through Progression.AwardPoints.
type ContentService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewContentService(db *gorm.DB, progression *ProgressionService) *ContentService {
	return &ContentService{DB: db, Progression: progression}
}

var ErrContentNotFound = errors.New("content not found")

// CreateComic stores the comic and awards upload points to the uploader.
func (s *ContentService) CreateComic(uploaderID, title, author, coverURL string) (*models.Comic, *AwardResult, error) {
	comic := models.Comic{
		ID:         uuid.NewString(),
		Title:      title,
		Slug:       slug.Make(title),
		Author:     author,
		CoverURL:   coverURL,
		UploaderID: uploaderID,
	}

	var n int64
	if err := s.DB.Model(&models.Comic{}).Where("slug = ?", comic.Slug).Count(&n).Error; err != nil {
		return nil, nil, err
	}
	if n > 0 {
		comic.Slug = fmt.Sprintf("%s-%s", comic.Slug, comic.ID[:8])
	}

	if err := s.DB.Create(&comic).Error; err != nil {
		return nil, nil, err
	}

	award, err := s.Progression.AwardPoints(uploaderID, models.ActivityUploadComic, &comic.ID)
	if err != nil {
		return &comic, nil, err
	}
	return &comic, award, nil
}

// AddChapter appends a chapter to a comic. Adding chapters earns nothing; the
// upload award covers the comic itself.
func (s *ContentService) AddChapter(comicID, title string, number int) (*models.Chapter, error) {
	var comic models.Comic
	if err := s.DB.Where("id = ?", comicID).First(&comic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	chapter := models.Chapter{
		ID:      uuid.NewString(),
		ComicID: comicID,
		Number:  number,
		Title:   title,
	}
	if err := s.DB.Create(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

// RecordChapterRead awards read points for an existing chapter. The read
// itself always succeeds; past the daily cap the award is just zero.
func (s *ContentService) RecordChapterRead(userID, chapterID string) (*AwardResult, error) {
	var chapter models.Chapter
	if err := s.DB.Where("id = ?", chapterID).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return s.Progression.AwardPoints(userID, models.ActivityReadChapter, &chapterID)
}

// CreateComment stores the comment and awards comment points.
func (s *ContentService) CreateComment(userID, chapterID, content string) (*models.Comment, *AwardResult, error) {
	var chapter models.Chapter
	if err := s.DB.Where("id = ?", chapterID).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrContentNotFound
		}
		return nil, nil, err
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChapterID: chapterID,
		Content:   content,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return nil, nil, err
	}

	award, err := s.Progression.AwardPoints(userID, models.ActivityComment, &comment.ID)
	if err != nil {
		return &comment, nil, err
	}
	return &comment, award, nil
}

// RateComic upserts the user's star value for a comic and awards rating
// points. Only the first rating of a comic ever earns; later value changes
// update the row but the ledger check yields a zero award.
func (s *ContentService) RateComic(userID, comicID string, value int) (*models.Rating, *AwardResult, error) {
	if value < 1 || value > 5 {
		return nil, nil, errors.New("rating value must be 1-5")
	}
	var comic models.Comic
	if err := s.DB.Where("id = ?", comicID).First(&comic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrContentNotFound
		}
		return nil, nil, err
	}

	var rating models.Rating
	err := s.DB.Where("user_id = ? AND comic_id = ?", userID, comicID).First(&rating).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.Rating{ID: uuid.NewString(), UserID: userID, ComicID: comicID, Value: value}
		if err := s.DB.Create(&rating).Error; err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		rating.Value = value
		if err := s.DB.Model(&models.Rating{}).Where("id = ?", rating.ID).Update("value", value).Error; err != nil {
			return nil, nil, err
		}
	}

	award, err := s.Progression.AwardPoints(userID, models.ActivityRating, &comicID)
	if err != nil {
		return &rating, nil, err
	}
	return &rating, award, nil
}
