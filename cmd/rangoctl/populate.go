package main

import (
	"context"
	"errors"
	"fmt"
	"go-rango-app/internal/data"
	"go-rango-app/internal/logger"
	"go-rango-app/internal/slug"
)

type samplePage struct {
	title string
	url   string
	views int
}

type sampleCategory struct {
	name  string
	views int
	likes int
	pages []samplePage
}

var sampleDirectory = []sampleCategory{
	{
		name: "Python", views: 128, likes: 64,
		pages: []samplePage{
			{"Official Python Tutorial", "http://docs.python.org/3/tutorial/", 22},
			{"How to Think like a Computer Scientist", "http://www.greenteapress.com/thinkpython/", 17},
			{"Learn Python in 10 Minutes", "http://www.korokithakis.net/tutorials/python/", 9},
		},
	},
	{
		name: "Django", views: 64, likes: 32,
		pages: []samplePage{
			{"Official Django Tutorial", "https://docs.djangoproject.com/en/2.1/intro/tutorial01/", 31},
			{"Django Rocks", "http://www.djangorocks.com/", 5},
			{"How to Tango with Django", "http://www.tangowithdjango.com/", 12},
		},
	},
	{
		name: "Other Frameworks", views: 32, likes: 16,
		pages: []samplePage{
			{"Bottle", "http://bottlepy.org/docs/dev/", 3},
			{"Flask", "http://flask.pocoo.org", 7},
		},
	},
}

// populate loads sampleDirectory. Categories and pages that already exist
// are left alone, so running it twice changes nothing.
func populate(ctx context.Context, categories *data.CategoryRepository, pages *data.SQLPageRepository, log logger.Logger) error {
	for _, sc := range sampleDirectory {
		category, err := categories.GetBySlug(ctx, slug.Make(sc.name))
		if errors.Is(err, data.ErrRecordNotFound) {
			category = &data.Category{Name: sc.name, Slug: slug.Make(sc.name), Views: sc.views, Likes: sc.likes}
			err = categories.Insert(ctx, category)
		}
		if err != nil {
			return fmt.Errorf("failed to add category %s: %w", sc.name, err)
		}

		existing, err := pages.GetPagesByCategoryID(ctx, category.ID)
		if err != nil {
			return err
		}
		titles := make(map[string]bool, len(existing))
		for _, p := range existing {
			titles[p.Title] = true
		}

		for _, sp := range sc.pages {
			if titles[sp.title] {
				continue
			}
			page := &data.Page{CategoryID: category.ID, Title: sp.title, URL: sp.url, Views: sp.views}
			if err := pages.CreatePage(ctx, page); err != nil {
				return fmt.Errorf("failed to add page %s: %w", sp.title, err)
			}
		}
		log.Info(fmt.Sprintf("- %s: %d pages", category.Name, len(sc.pages)))
	}
	return nil
}
