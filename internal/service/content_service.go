package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	"github.com/yourusername/automatismes-api/internal/engine"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

// Листы книги с контентом
const (
	ExercisesSheet = "Exercices"
	MethodsSheet   = "Methode"
)

// CatalogInvalidator сбрасывает кеш каталога после импорта
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// ImportReport - итог импорта книги
type ImportReport struct {
	ExercisesCreated int
	ExercisesUpdated int
	MethodsCreated   int
	MethodsUpdated   int
	Findings         []engine.Finding
}

// ContentService импортирует шаблоны и fiches méthode из Excel и проверяет шаблоны
type ContentService struct {
	exerciseRepo repository.ExerciseRepository
	methodRepo   repository.MethodRepository
	catalog      CatalogInvalidator
}

// NewContentService создает новый сервис контента и возвращает ошибку при проблемах
func NewContentService(
	exerciseRepo repository.ExerciseRepository,
	methodRepo repository.MethodRepository,
	catalog CatalogInvalidator,
) (*ContentService, error) {
	if exerciseRepo == nil {
		return nil, fmt.Errorf("ExerciseRepository is required for ContentService")
	}
	if methodRepo == nil {
		return nil, fmt.Errorf("MethodRepository is required for ContentService")
	}
	return &ContentService{exerciseRepo: exerciseRepo, methodRepo: methodRepo, catalog: catalog}, nil
}

// Lint проверяет все шаблоны каталога
func (s *ContentService) Lint(ctx context.Context) ([]engine.Finding, error) {
	exercises, err := s.exerciseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	var findings []engine.Finding
	for i := range exercises {
		findings = append(findings, engine.Lint(exercises[i].Template())...)
	}
	return findings, nil
}

// ImportWorkbook читает листы "Exercices" и "Methode" и сохраняет их.
// Сначала проверяются все строки; при любой ошибке ничего не записывается.
func (s *ContentService) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", apperrors.ErrValidation, err)
	}
	defer f.Close()

	exercises, rowErrs, err := readExercises(f)
	if err != nil {
		return nil, err
	}
	methods, methodErrs, err := readMethods(f)
	if err != nil {
		return nil, err
	}
	rowErrs = append(rowErrs, methodErrs...)
	if len(rowErrs) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(rowErrs, "; "))
	}

	report := &ImportReport{}
	for i := range exercises {
		created, err := s.exerciseRepo.Upsert(ctx, &exercises[i])
		if err != nil {
			return report, fmt.Errorf("failed to save exercise %d: %w", exercises[i].Numero, err)
		}
		if created {
			report.ExercisesCreated++
		} else {
			report.ExercisesUpdated++
		}
		report.Findings = append(report.Findings, engine.Lint(exercises[i].Template())...)
	}
	for i := range methods {
		created, err := s.methodRepo.Upsert(ctx, &methods[i])
		if err != nil {
			return report, fmt.Errorf("failed to save method %q: %w", methods[i].Titre, err)
		}
		if created {
			report.MethodsCreated++
		} else {
			report.MethodsUpdated++
		}
	}

	if s.catalog != nil {
		if err := s.catalog.Invalidate(ctx); err != nil {
			log.Printf("[ContentService] Не удалось сбросить кеш каталога: %v", err)
		}
	}

	log.Printf("[ContentService] Импорт: упражнений +%d/~%d, методов +%d/~%d, замечаний %d",
		report.ExercisesCreated, report.ExercisesUpdated, report.MethodsCreated, report.MethodsUpdated, len(report.Findings))
	return report, nil
}

// sheetRows возвращает строки листа как map "заголовок -> значение"; заголовки нормализуются
func sheetRows(f *excelize.File, sheet string) ([]map[string]string, bool, error) {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, false, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, true, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ReplaceAll(textnorm.Key(h), " ", "_")
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		empty := true
		for i, h := range headers {
			if i < len(row) {
				values[h] = strings.TrimSpace(row[i])
				if values[h] != "" {
					empty = false
				}
			}
		}
		if empty {
			// Пустые строки сохраняют нумерацию, но не импортируются
			values = nil
		}
		out = append(out, values)
	}
	return out, true, nil
}

func readExercises(f *excelize.File) ([]entity.Exercise, []string, error) {
	rows, ok, err := sheetRows(f, ExercisesSheet)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: sheet %q is missing", apperrors.ErrValidation, ExercisesSheet)
	}

	var (
		exercises []entity.Exercise
		errs      []string
		seen      = make(map[int]int)
	)
	for i, row := range rows {
		if row == nil {
			continue
		}
		line := i + 2
		numero, err := strconv.Atoi(row["numero"])
		if err != nil || numero <= 0 {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid numero %q", ExercisesSheet, line, row["numero"]))
			continue
		}
		if prev, dup := seen[numero]; dup {
			errs = append(errs, fmt.Sprintf("%s row %d: numero %d already used on row %d", ExercisesSheet, line, numero, prev))
			continue
		}
		seen[numero] = line

		categorie, err := strconv.Atoi(row["categorie"])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: invalid categorie %q", ExercisesSheet, line, row["categorie"]))
			continue
		}
		e := entity.Exercise{
			Numero:      numero,
			Categorie:   categorie,
			Automatisme: row["automatisme"],
			Enonce:      row["enonce"],
			Correction:  row["correction"],
			ReponseExpr: row["reponse_expr"],
			TypeReponse: strings.ToLower(row["type_reponse"]),
		}
		if e.Automatisme == "" || e.Enonce == "" || e.ReponseExpr == "" {
			errs = append(errs, fmt.Sprintf("%s row %d: automatisme, enonce and reponse_expr are required", ExercisesSheet, line))
			continue
		}
		switch e.TypeReponse {
		case "", engine.AnswerTypePercentage, engine.AnswerTypeBoolean:
		default:
			errs = append(errs, fmt.Sprintf("%s row %d: unknown type_reponse %q", ExercisesSheet, line, e.TypeReponse))
			continue
		}
		exercises = append(exercises, e)
	}

	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Numero < exercises[j].Numero })
	return exercises, errs, nil
}

func readMethods(f *excelize.File) ([]entity.Method, []string, error) {
	rows, ok, err := sheetRows(f, MethodsSheet)
	if err != nil || !ok {
		return nil, nil, err
	}

	var (
		methods []entity.Method
		errs    []string
	)
	for i, row := range rows {
		if row == nil {
			continue
		}
		m := entity.Method{
			Automatisme: row["automatisme"],
			Titre:       row["titre"],
			Contenu:     row["contenu"],
			Exemple:     row["exemple"],
		}
		if m.Automatisme == "" || m.Titre == "" || m.Contenu == "" {
			errs = append(errs, fmt.Sprintf("%s row %d: automatisme, titre and contenu are required", MethodsSheet, i+2))
			continue
		}
		methods = append(methods, m)
	}
	return methods, errs, nil
}
