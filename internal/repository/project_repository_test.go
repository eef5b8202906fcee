package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// ProjectRepositoryTestSuite exercises the listing filter against sqlite
type ProjectRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo ProjectRepository
	ctx  context.Context
	user *models.User
}

func (suite *ProjectRepositoryTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.AutoMigrate(models.All()...))

	suite.repo = NewProjectRepository(suite.db)
	suite.ctx = context.Background()

	suite.user = &models.User{Fullname: "creator", Email: "creator@example.com"}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

func (suite *ProjectRepositoryTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

type projectSeed struct {
	uri        string
	categoryID *uint64
	opening    time.Time
	closing    time.Time
	rate       float64
	amount     float64
	supporters int
}

func (suite *ProjectRepositoryTestSuite) createProject(seed projectSeed) *models.Project {
	if seed.opening.IsZero() {
		seed.opening = baseTime.AddDate(0, 0, -10)
	}
	if seed.closing.IsZero() {
		seed.closing = baseTime.AddDate(0, 0, 10)
	}
	project := &models.Project{
		UserID:          suite.user.ID,
		CategoryID:      seed.categoryID,
		Name:            "project " + seed.uri,
		OpeningDate:     seed.opening,
		ClosingDate:     seed.closing,
		AchievedRate:    seed.rate,
		TotalAmount:     seed.amount,
		TotalSupporters: seed.supporters,
		GoalAmount:      1_000_000,
		ThumbnailURL:    "https://cdn.example.com/" + seed.uri + ".png",
		Summary:         "summary",
		ProjectURI:      seed.uri,
	}
	suite.Require().NoError(suite.db.Omit("User", "Category").Create(project).Error)
	return project
}

func uris(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ProjectURI
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

func (suite *ProjectRepositoryTestSuite) TestList_NoFilter() {
	suite.createProject(projectSeed{uri: "a"})
	suite.createProject(projectSeed{uri: "b"})
	suite.createProject(projectSeed{uri: "c"})

	projects, total, err := suite.repo.List(suite.ctx, ProjectFilter{Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Equal([]string{"a", "b", "c"}, uris(projects))
	suite.Equal("creator", projects[0].User.Fullname)
}

func (suite *ProjectRepositoryTestSuite) TestList_Category() {
	food := &models.Category{Name: "food"}
	tech := &models.Category{Name: "tech"}
	suite.Require().NoError(suite.db.Create(food).Error)
	suite.Require().NoError(suite.db.Create(tech).Error)

	suite.createProject(projectSeed{uri: "bread", categoryID: &food.ID})
	suite.createProject(projectSeed{uri: "robot", categoryID: &tech.ID})
	suite.createProject(projectSeed{uri: "none"})

	projects, total, err := suite.repo.List(suite.ctx, ProjectFilter{CategoryID: &food.ID, Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal([]string{"bread"}, uris(projects))
	suite.Require().NotNil(projects[0].Category)
	suite.Equal("food", projects[0].Category.Name)
}

func (suite *ProjectRepositoryTestSuite) TestList_Status() {
	suite.createProject(projectSeed{uri: "open", opening: baseTime.AddDate(0, 0, -1), closing: baseTime.AddDate(0, 0, 1)})
	suite.createProject(projectSeed{uri: "closed", opening: baseTime.AddDate(0, 0, -20), closing: baseTime.AddDate(0, 0, -1), rate: 120})
	suite.createProject(projectSeed{uri: "soon", opening: baseTime.AddDate(0, 0, 3), closing: baseTime.AddDate(0, 0, 30)})

	tests := []struct {
		status ProjectStatus
		want   []string
	}{
		{ProjectStatusOnGoing, []string{"open"}},
		{ProjectStatusConfirm, []string{"closed"}},
		{ProjectStatusPrelaunching, []string{"soon"}},
	}

	for _, tt := range tests {
		projects, total, err := suite.repo.List(suite.ctx, ProjectFilter{Status: ptr(tt.status), Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
		suite.Require().NoError(err)
		suite.Equal(tt.want, uris(projects), string(tt.status))
		suite.Equal(int64(len(tt.want)), total, string(tt.status))
	}
}

func (suite *ProjectRepositoryTestSuite) TestList_Achieve() {
	suite.createProject(projectSeed{uri: "r50", rate: 50})
	suite.createProject(projectSeed{uri: "r75", rate: 75})
	suite.createProject(projectSeed{uri: "r90", rate: 90})
	suite.createProject(projectSeed{uri: "r100", rate: 100})
	suite.createProject(projectSeed{uri: "r250", rate: 250})

	tests := []struct {
		achieve AchieveRange
		want    []string
	}{
		{AchieveUnder75, []string{"r50", "r75"}},
		{AchieveUnder100, []string{"r90"}},
		{Achieve100Up, []string{"r100", "r250"}},
	}

	for _, tt := range tests {
		projects, _, err := suite.repo.List(suite.ctx, ProjectFilter{Achieve: ptr(tt.achieve), Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
		suite.Require().NoError(err)
		suite.Equal(tt.want, uris(projects), string(tt.achieve))
	}
}

func (suite *ProjectRepositoryTestSuite) TestList_Money() {
	suite.createProject(projectSeed{uri: "m1", amount: 1_000_000})
	suite.createProject(projectSeed{uri: "m5", amount: 5_000_000})
	suite.createProject(projectSeed{uri: "m10", amount: 10_000_000})
	suite.createProject(projectSeed{uri: "m30", amount: 30_000_000})
	suite.createProject(projectSeed{uri: "m50", amount: 50_000_000})
	suite.createProject(projectSeed{uri: "m100", amount: 100_000_000})
	suite.createProject(projectSeed{uri: "m200", amount: 200_000_000})

	tests := []struct {
		money MoneyRange
		want  []string
	}{
		{MoneyUnder1M, []string{"m1"}},
		{Money1MTo10M, []string{"m5", "m10"}},
		{Money10MTo50M, []string{"m30", "m50"}},
		{Money50MTo100M, []string{"m100"}},
		{Money100MUp, []string{"m200"}},
	}

	for _, tt := range tests {
		projects, _, err := suite.repo.List(suite.ctx, ProjectFilter{Money: ptr(tt.money), Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
		suite.Require().NoError(err)
		suite.Equal(tt.want, uris(projects), string(tt.money))
	}
}

func (suite *ProjectRepositoryTestSuite) TestList_Sort() {
	suite.createProject(projectSeed{uri: "a", rate: 10, amount: 300, supporters: 2, opening: baseTime.AddDate(0, 0, -3), closing: baseTime.AddDate(0, 0, 5)})
	suite.createProject(projectSeed{uri: "b", rate: 30, amount: 100, supporters: 9, opening: baseTime.AddDate(0, 0, -1), closing: baseTime.AddDate(0, 0, 9)})
	suite.createProject(projectSeed{uri: "c", rate: 20, amount: 200, supporters: 5, opening: baseTime.AddDate(0, 0, -2), closing: baseTime.AddDate(0, 0, 1)})

	tests := []struct {
		sort ProjectSort
		want []string
	}{
		{SortPopular, []string{"b", "c", "a"}},
		{SortPublishedAt, []string{"b", "c", "a"}},
		{SortPledges, []string{"b", "c", "a"}},
		{SortAmount, []string{"a", "c", "b"}},
		{SortEndedAt, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		projects, _, err := suite.repo.List(suite.ctx, ProjectFilter{Sort: ptr(tt.sort), Now: baseTime, PaginationParams: utils.PaginationParams{Limit: 12}})
		suite.Require().NoError(err)
		suite.Equal(tt.want, uris(projects), string(tt.sort))
	}
}

func (suite *ProjectRepositoryTestSuite) TestList_PaginationKeepsTotal() {
	for i := 0; i < 5; i++ {
		suite.createProject(projectSeed{uri: fmt.Sprintf("p%d", i), rate: 100})
	}
	suite.createProject(projectSeed{uri: "low", rate: 10})

	tests := []struct {
		offset, limit int
		wantLen       int
	}{
		{0, 2, 2},
		{4, 2, 1},
		{5, 2, 0},
		{0, 0, 0},
		{0, 12, 5},
	}

	for _, tt := range tests {
		projects, total, err := suite.repo.List(suite.ctx, ProjectFilter{
			Achieve:          ptr(Achieve100Up),
			Now:              baseTime,
			PaginationParams: utils.PaginationParams{Offset: tt.offset, Limit: tt.limit},
		})
		suite.Require().NoError(err)
		suite.Equal(int64(5), total)
		suite.Len(projects, tt.wantLen, "offset=%d limit=%d", tt.offset, tt.limit)
	}
}

func (suite *ProjectRepositoryTestSuite) TestCreateWithStoryAndGifts() {
	project := &models.Project{
		UserID:       suite.user.ID,
		Name:         "new",
		OpeningDate:  baseTime,
		ClosingDate:  baseTime.AddDate(0, 1, 0),
		GoalAmount:   500_000,
		ThumbnailURL: "https://cdn.example.com/new.png",
		Summary:      "s",
		ProjectURI:   "new",
	}
	gifts := []models.Gift{{Name: "g1", Price: 1000, Stock: 3}, {Name: "g2", Price: 5000, Stock: 1}}

	err := suite.repo.CreateWithStoryAndGifts(suite.ctx, project, &models.Story{Content: "story"}, gifts)
	suite.Require().NoError(err)

	stored, err := suite.repo.ListGifts(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Len(stored, 2)
	story, err := suite.repo.FindFirstStory(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal("story", story.Content)

	exists, err := suite.repo.ExistsByURI(suite.ctx, "new")
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *ProjectRepositoryTestSuite) TestCreateWithStoryAndGifts_DuplicateURI() {
	suite.createProject(projectSeed{uri: "taken"})

	project := &models.Project{
		UserID:       suite.user.ID,
		Name:         "dup",
		OpeningDate:  baseTime,
		ClosingDate:  baseTime.AddDate(0, 1, 0),
		ThumbnailURL: "x",
		Summary:      "s",
		ProjectURI:   "taken",
	}
	err := suite.repo.CreateWithStoryAndGifts(suite.ctx, project, &models.Story{Content: "x"}, []models.Gift{{Name: "g", Stock: 1}})
	suite.Require().Error(err)
	suite.ErrorIs(err, ErrCreateProject)
	suite.ErrorIs(err, gorm.ErrDuplicatedKey)

	var stories, gifts int64
	suite.db.Model(&models.Story{}).Count(&stories)
	suite.db.Model(&models.Gift{}).Count(&gifts)
	suite.Zero(stories)
	suite.Zero(gifts)
}

func (suite *ProjectRepositoryTestSuite) TestToggleLike() {
	project := suite.createProject(projectSeed{uri: "liked"})

	liked, err := suite.repo.HasLike(suite.ctx, project.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.False(liked)

	liked, err = suite.repo.ToggleLike(suite.ctx, project.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.True(liked)

	liked, err = suite.repo.HasLike(suite.ctx, project.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.True(liked)

	liked, err = suite.repo.ToggleLike(suite.ctx, project.ID, suite.user.ID)
	suite.Require().NoError(err)
	suite.False(liked)
}

func (suite *ProjectRepositoryTestSuite) TestComments() {
	project := suite.createProject(projectSeed{uri: "talk"})

	root := &models.Community{UserID: &suite.user.ID, ProjectID: project.ID, Comment: "root"}
	suite.Require().NoError(suite.repo.CreateComment(suite.ctx, root))
	reply := &models.Community{UserID: &suite.user.ID, ProjectID: project.ID, ParentID: &root.ID, Comment: "reply"}
	suite.Require().NoError(suite.repo.CreateComment(suite.ctx, reply))

	comments, err := suite.repo.ListComments(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Require().Len(comments, 2)
	suite.Equal("root", comments[0].Comment)
	suite.Require().NotNil(comments[1].User)
	suite.Equal("creator", comments[1].User.Fullname)

	found, err := suite.repo.FindComment(suite.ctx, project.ID, reply.ID)
	suite.Require().NoError(err)
	suite.Equal(root.ID, *found.ParentID)

	_, err = suite.repo.FindComment(suite.ctx, project.ID+1, reply.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestProjectRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectRepositoryTestSuite))
}

func TestCreateWithStoryAndGifts_RollsBackOnStoryFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `projects`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `stories`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	repo := NewProjectRepository(db)
	project := &models.Project{UserID: 1, Name: "p", ProjectURI: "p", OpeningDate: baseTime, ClosingDate: baseTime}
	err = repo.CreateWithStoryAndGifts(context.Background(), project, &models.Story{Content: "s"}, []models.Gift{{Name: "g"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateStory)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithStoryAndGifts_RollsBackOnGiftFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `projects`")).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `stories`")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `gifts`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `gifts`")).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	repo := NewProjectRepository(db)
	project := &models.Project{UserID: 1, Name: "p", ProjectURI: "p", OpeningDate: baseTime, ClosingDate: baseTime}
	gifts := []models.Gift{{Name: "g1"}, {Name: "g2"}}
	err = repo.CreateWithStoryAndGifts(context.Background(), project, &models.Story{Content: "s"}, gifts)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateGift)
	assert.Equal(t, uint64(7), gifts[0].ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_ConcurrentFirstLike(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `likes`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `likes`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'idx_likes_project_user'"})
	mock.ExpectRollback()

	liked, err := NewProjectRepository(db).ToggleLike(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
