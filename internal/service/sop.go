package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vbonduro/lubetrack/internal/domain"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type DocumentInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SOPLibrary holds standard operating procedures grouped by category.
type SOPLibrary struct {
	*ledger
	categories collection[domain.SOPCategory]
	documents  collection[domain.SOPDocument]
}

func idOfCategory(c domain.SOPCategory) string { return c.ID }
func idOfDocument(d domain.SOPDocument) string { return d.ID }

func (l *SOPLibrary) Categories(ctx context.Context) ([]domain.SOPCategory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cats, err := l.categories.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("list_categories", err)
	}
	return cats, nil
}

func (l *SOPLibrary) CreateCategory(ctx context.Context, in CategoryInput) (*domain.SOPCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cats, err := l.categories.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_category", err)
	}
	c := domain.SOPCategory{ID: l.newID(), Name: name, Description: in.Description}
	cats = append(cats, c)

	if err := l.saveCategories(ctx, "create_category", cats); err != nil {
		return nil, err
	}
	return &c, nil
}

func (l *SOPLibrary) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.SOPCategory, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cats, err := l.categories.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_category", err)
	}
	i := indexByID(cats, id, idOfCategory)
	if i < 0 {
		return nil, fmt.Errorf("update category %s: %w", id, domain.ErrCategoryNotFound)
	}
	cats[i].Name = name
	cats[i].Description = in.Description

	if err := l.saveCategories(ctx, "update_category", cats); err != nil {
		return nil, err
	}
	updated := cats[i]
	return &updated, nil
}

// DeleteCategory removes the category. Its documents stay stored but are no
// longer listed.
func (l *SOPLibrary) DeleteCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cats, err := l.categories.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_category", err)
	}
	i := indexByID(cats, id, idOfCategory)
	if i < 0 {
		return fmt.Errorf("delete category %s: %w", id, domain.ErrCategoryNotFound)
	}
	cats = slices.Delete(cats, i, i+1)

	return l.saveCategories(ctx, "delete_category", cats)
}

func (l *SOPLibrary) Documents(ctx context.Context, categoryID string) ([]domain.SOPDocument, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireCategory(ctx, "list_documents", categoryID); err != nil {
		return nil, err
	}
	docs, err := l.documents.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("list_documents", err)
	}
	out := []domain.SOPDocument{}
	for _, d := range docs {
		if d.CategoryID == categoryID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (l *SOPLibrary) GetDocument(ctx context.Context, id string) (*domain.SOPDocument, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.documents.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("get_document", err)
	}
	i := indexByID(docs, id, idOfDocument)
	if i < 0 {
		return nil, fmt.Errorf("get document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return &docs[i], nil
}

func (l *SOPLibrary) CreateDocument(ctx context.Context, categoryID string, in DocumentInput) (*domain.SOPDocument, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireCategory(ctx, "create_document", categoryID); err != nil {
		return nil, err
	}
	docs, err := l.documents.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("create_document", err)
	}
	d := domain.SOPDocument{
		ID:         l.newID(),
		CategoryID: categoryID,
		Title:      title,
		Content:    in.Content,
		UpdatedAt:  l.today(),
	}
	docs = append(docs, d)

	if err := l.saveDocuments(ctx, "create_document", docs); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *SOPLibrary) UpdateDocument(ctx context.Context, id string, in DocumentInput) (*domain.SOPDocument, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.documents.Load(ctx)
	if err != nil {
		return nil, l.storageFailed("update_document", err)
	}
	i := indexByID(docs, id, idOfDocument)
	if i < 0 {
		return nil, fmt.Errorf("update document %s: %w", id, domain.ErrDocumentNotFound)
	}
	docs[i].Title = title
	docs[i].Content = in.Content
	docs[i].UpdatedAt = l.today()

	if err := l.saveDocuments(ctx, "update_document", docs); err != nil {
		return nil, err
	}
	updated := docs[i]
	return &updated, nil
}

func (l *SOPLibrary) DeleteDocument(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.documents.Load(ctx)
	if err != nil {
		return l.storageFailed("delete_document", err)
	}
	i := indexByID(docs, id, idOfDocument)
	if i < 0 {
		return fmt.Errorf("delete document %s: %w", id, domain.ErrDocumentNotFound)
	}
	docs = slices.Delete(docs, i, i+1)

	return l.saveDocuments(ctx, "delete_document", docs)
}

func (l *SOPLibrary) requireCategory(ctx context.Context, op, id string) error {
	cats, err := l.categories.Load(ctx)
	if err != nil {
		return l.storageFailed(op, err)
	}
	if indexByID(cats, id, idOfCategory) < 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrCategoryNotFound)
	}
	return nil
}

func (l *SOPLibrary) saveCategories(ctx context.Context, op string, cats []domain.SOPCategory) error {
	entry, err := l.categories.Stage(cats)
	if err != nil {
		return l.storageFailed(op, err)
	}
	if err := l.commit.Commit(ctx, entry); err != nil {
		return l.storageFailed(op, err)
	}
	return nil
}

func (l *SOPLibrary) saveDocuments(ctx context.Context, op string, docs []domain.SOPDocument) error {
	entry, err := l.documents.Stage(docs)
	if err != nil {
		return l.storageFailed(op, err)
	}
	if err := l.commit.Commit(ctx, entry); err != nil {
		return l.storageFailed(op, err)
	}
	return nil
}
