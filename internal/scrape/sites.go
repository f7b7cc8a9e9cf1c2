package scrape

import "github.com/PuerkitoBio/goquery"

// Greenhouse boards expose the company through og:site_name; older board
// themes carry a .company-name element instead. Salary is not published.
func extractGreenhouse(doc *goquery.Document) Job {
	return Job{
		Company: firstOf(doc,
			meta(`meta[property="og:site_name"]`),
			text(".company-name"),
		),
		Position: firstOf(doc, text("h1.app-title")),
		Location: firstOf(doc, text(".location")),
		Notes:    Truncate(firstOf(doc, text("#content")), noteLimit),
	}
}

func extractLinkedIn(doc *goquery.Document) Job {
	return Job{
		Company: firstOf(doc,
			text("a.topcard__org-name-link"),
			text("span.topcard__flavor"),
		),
		Position: firstOf(doc, text("h1.top-card-layout__title")),
		// the flavor bullets list location last
		Location: firstOf(doc, lastText("span.topcard__flavor--bullet")),
		Notes:    Truncate(firstOf(doc, text(".show-more-less-html__markup")), noteLimit),
	}
}

func extractIndeed(doc *goquery.Document) Job {
	return Job{
		Company: firstOf(doc,
			text("div[data-company-name] a"),
			text(`[data-testid="inlineHeader-companyName"]`),
		),
		Position: firstOf(doc, text("h1.jobsearch-JobInfoHeader-title")),
		Location: firstOf(doc, childText(".jobsearch-CompanyInfoContainer", 1)),
		Salary: firstOf(doc,
			text("#salaryInfoAndJobType"),
			text(".attribute_snippet"),
		),
		Notes: Truncate(firstOf(doc, text("#jobDescriptionText")), noteLimit),
	}
}

func extractHandshake(doc *goquery.Document) Job {
	return Job{
		Company: firstOf(doc,
			text(`a[href*="/employers/"]`),
			text(`[data-hook="employer-name"]`),
		),
		Position: firstOf(doc,
			text("h1"),
			text(`[data-hook="job-title"]`),
		),
		Location: firstOf(doc, text(`[data-hook="job-location"]`)),
		Salary:   firstOf(doc, siblingAfterLabel("Compensation", "Salary")),
		Notes:    Truncate(firstOf(doc, text(`[data-hook="job-description"]`)), noteLimit),
	}
}

// extractGeneric is the fallback for unrecognized hosts. Location and salary
// have no reliable generic selector and stay empty.
func extractGeneric(doc *goquery.Document) Job {
	return Job{
		Company: firstOf(doc,
			meta(`meta[name="og:site_name"]`),
			meta(`meta[property="og:site_name"]`),
		),
		Position: firstOf(doc, text("h1")),
		Notes:    Truncate(firstOf(doc, joinedText("p"), joinedText("div")), genericNoteLimit),
	}
}
