package db

import (
	"context"
	"errors"
	"fmt"

	"selfhelpblog/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by identifier matches no row.
var ErrNotFound = errors.New("record not found")

// Store wraps the connection with the queries the handlers need.
// Relationship accessors are explicit methods rather than preloaded fields.
type Store struct {
	db *gorm.DB
}

func NewStore(conn *gorm.DB) *Store {
	return &Store{db: conn}
}

// DB exposes the connection for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// FindOrCreateUser returns the user with email, inserting it first if absent.
// The bool reports whether a row was created.
func (s *Store) FindOrCreateUser(ctx context.Context, email string) (*models.User, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("find user %q: %w", email, err)
	}

	user = models.User{Email: email}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create user %q: %w", email, err)
	}
	return &user, true, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListArticles returns every article in id order, with author and comment count.
func (s *Store) ListArticles(ctx context.Context) ([]models.Article, error) {
	articles := make([]models.Article, 0)
	if err := s.db.WithContext(ctx).Preload("User").Order("id ASC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if err := s.fillCommentCounts(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *Store) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).Preload("User").First(&article, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &article, nil
}

func (s *Store) CreateArticle(ctx context.Context, article *models.Article) error {
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

func (s *Store) ArticlesByUser(ctx context.Context, userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&articles).Error
	return articles, err
}

// CommentsByArticle returns the article's comments oldest first, each with its like count.
func (s *Store) CommentsByArticle(ctx context.Context, articleID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("comments for article %d: %w", articleID, err)
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	counts, err := s.CountLikesByComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].LikeCount = counts[comments[i].ID]
	}
	return comments, nil
}

func (s *Store) CommentsByUser(ctx context.Context, userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&comments).Error
	return comments, err
}

func (s *Store) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

// CreateComment inserts a comment as given; empty content is accepted.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *Store) CountCommentsByArticle(ctx context.Context, articleID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&count).Error
	return count, err
}

// CreateLike always inserts a new row, even if the user already liked the comment.
func (s *Store) CreateLike(ctx context.Context, like *models.Like) error {
	if err := s.db.WithContext(ctx).Create(like).Error; err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

func (s *Store) LikesByComment(ctx context.Context, commentID uint) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.WithContext(ctx).Where("comment_id = ?", commentID).Order("id ASC").Find(&likes).Error
	return likes, err
}

// CountLikesByComments 批量查询评论点赞数
func (s *Store) CountLikesByComments(ctx context.Context, commentIDs []uint) (map[uint]int, error) {
	countMap := make(map[uint]int, len(commentIDs))
	if len(commentIDs) == 0 {
		return countMap, nil
	}

	type CountResult struct {
		CommentID uint
		Count     int
	}
	var results []CountResult
	err := s.db.WithContext(ctx).Model(&models.Like{}).
		Select("comment_id, COUNT(*) as count").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	for _, r := range results {
		countMap[r.CommentID] = r.Count
	}
	return countMap, nil
}

// fillCommentCounts 批量填充文章的评论数量
func (s *Store) fillCommentCounts(ctx context.Context, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	articleIDs := make([]uint, len(articles))
	for i, a := range articles {
		articleIDs[i] = a.ID
	}

	type CountResult struct {
		ArticleID uint
		Count     int
	}
	var results []CountResult
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("article_id, COUNT(*) as count").
		Where("article_id IN ?", articleIDs).
		Group("article_id").
		Scan(&results).Error
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.ArticleID] = r.Count
	}
	for i := range articles {
		articles[i].CommentCount = countMap[articles[i].ID]
	}
	return nil
}
