// Command seed fills a development database with demo accounts and
// reports so the catalog has something to show on first run.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/bxcodec/faker/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/esprim/pfe-catalog-api/internal/models"
	"github.com/esprim/pfe-catalog-api/internal/repository"
	"github.com/esprim/pfe-catalog-api/pkg/config"
	"github.com/esprim/pfe-catalog-api/pkg/database"
)

const demoPassword = "password123"

var specialties = []string{"Informatique", "Mecatronique", "Genie Civil", "Telecommunications"}

var years = []string{"2022-2023", "2023-2024", "2024-2025"}

var keywordPool = []string{
	"intelligence artificielle", "microservices", "iot", "securite",
	"vision par ordinateur", "cloud", "blockchain", "automatisation",
	"energie", "robotique", "web", "mobile",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	reports := repository.NewReportRepository(db)
	history := repository.NewValidationRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash demo password: %v", err)
	}

	admin := seedUser(ctx, users, "admin@esprim.tn", models.RoleAdmin, string(hash))
	teacher := seedUser(ctx, users, "teacher@esprim.tn", models.RoleTeacher, string(hash))

	studentIDs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		email := fmt.Sprintf("student%02d@esprim.tn", i+1)
		student := seedUser(ctx, users, email, models.RoleStudent, string(hash))
		if student != "" {
			studentIDs = append(studentIDs, student)
		}
	}

	if len(studentIDs) == 0 {
		log.Println("no students created, skipping reports")
		return
	}

	created := 0
	for i := 0; i < 60; i++ {
		submitter := studentIDs[rand.Intn(len(studentIDs))]
		report := fakeReport(submitter)

		// Roughly two thirds of the demo set is published.
		switch rand.Intn(3) {
		case 0, 1:
			report.Status = models.StatusValidated
			ts := time.Now().UTC().AddDate(0, 0, -rand.Intn(300))
			report.ValidatedAt = &ts
			report.ValidatedBy = &teacher
			report.ViewsCount = rand.Intn(500)
		case 2:
			if rand.Intn(2) == 0 {
				report.Status = models.StatusRejected
				reason := "La charte graphique n'est pas respectee."
				report.RejectionReason = &reason
				report.ValidatedBy = &teacher
			}
		}

		if err := reports.Create(ctx, report); err != nil {
			log.Printf("skip report: %v", err)
			continue
		}
		created++

		if report.Status == models.StatusValidated {
			checklist := models.Checklist{GraphicCharter: true, Sections: true, Quality: true, ContentRelevance: true, Appropriate: true}
			_ = history.Append(ctx, &models.ValidationHistory{
				ReportID:    report.ID,
				ValidatorID: teacher,
				Action:      models.ActionValidated,
				Checklist:   &checklist,
			})
		}
	}

	log.Printf("seed complete: admin=%s teacher=%s students=%d reports=%d", admin, teacher, len(studentIDs), created)
}

func seedUser(ctx context.Context, repo *repository.UserRepository, email string, role models.UserRole, hash string) string {
	if existing, err := repo.FindByEmail(ctx, email); err == nil {
		return existing.ID
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    faker.FirstName(),
		LastName:     faker.LastName(),
		Role:         role,
		Active:       true,
	}
	if role == models.RoleStudent {
		specialty := specialties[rand.Intn(len(specialties))]
		year := 2023 + rand.Intn(3)
		user.Specialty = &specialty
		user.GraduationYear = &year
	}
	if err := repo.Create(ctx, user); err != nil {
		log.Printf("skip user %s: %v", email, err)
		return ""
	}
	return user.ID
}

func fakeReport(submitterID string) *models.Report {
	keywords := make(models.StringList, 0, 6)
	for _, idx := range rand.Perm(len(keywordPool))[:6] {
		keywords = append(keywords, keywordPool[idx])
	}

	authors := models.AuthorList{{Name: faker.Name(), Email: strings.ToLower(faker.Username()) + "@esprim.tn"}}
	if rand.Intn(2) == 0 {
		authors = append(authors, models.Author{Name: faker.Name(), Email: strings.ToLower(faker.Username()) + "@esprim.tn"})
	}

	abstract := faker.Paragraph()
	for len([]rune(abstract)) < 200 {
		abstract += " " + faker.Sentence()
	}
	if runes := []rune(abstract); len(runes) > 500 {
		abstract = string(runes[:500])
	}

	company := faker.Word() + " " + faker.Word()
	return &models.Report{
		Title:              "Conception et realisation: " + faker.Sentence(),
		Authors:            authors,
		AcademicSupervisor: faker.Name(),
		AcademicYear:       years[rand.Intn(len(years))],
		Specialty:          specialties[rand.Intn(len(specialties))],
		Department:         "Genie " + faker.Word(),
		Keywords:           keywords,
		Abstract:           abstract,
		Company:            &company,
		Status:             models.StatusPending,
		SubmittedBy:        submitterID,
		SubmittedAt:        time.Now().UTC().AddDate(0, 0, -rand.Intn(400)),
	}
}
