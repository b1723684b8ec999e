// Package printing renders TMS documents. HTML comes from embedded
// html/template files; PDFs are printed by headless Chrome through chromedp.
//
//	engine := NewTemplateEngine()
//	html, err := engine.RenderHTML(ctx, TemplateDeliveryNote, note)
//	...
//	pdf, err := renderer.RenderPDF(ctx, html)
package printing
