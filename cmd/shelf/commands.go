package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"bookcatalog/internal/book"
	"bookcatalog/internal/browse"
	"bookcatalog/internal/tui"

	"golang.org/x/term"
)

var runBrowser = tui.Run

type CredentialFlags struct {
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password; prompted for when empty" env:"BOOKCATALOG_PASSWORD"`
}

// password returns the flag value or reads one from the terminal without
// echo. Piped input is read as a single line.
func (c CredentialFlags) password(a *app) (string, error) {
	if c.Password != "" {
		return c.Password, nil
	}
	fmt.Fprint(a.out, "Password: ")
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		return string(b), err
	}
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type SignupCmd struct {
	CredentialFlags `embed:""`
}

func (c *SignupCmd) Run(a *app) error {
	pw, err := c.password(a)
	if err != nil {
		return err
	}
	if err := a.session.Signup(a.ctx, c.Email, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed up as %s\n", c.Email)
	return nil
}

type LoginCmd struct {
	CredentialFlags `embed:""`
}

func (c *LoginCmd) Run(a *app) error {
	pw, err := c.password(a)
	if err != nil {
		return err
	}
	if err := a.session.Login(a.ctx, c.Email, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", c.Email)
	return nil
}

type LogoutCmd struct{}

func (LogoutCmd) Run(a *app) error {
	if _, ok := a.session.Identity(); !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err := a.session.Logout(a.ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

type BooksCmd struct {
	Search    string  `short:"q" help:"Case-insensitive title substring"`
	Category  string  `short:"c" help:"Exact category, case-insensitive"`
	MinRating float64 `short:"r" help:"Minimum rating (0 disables)"`
	Sort      string  `short:"s" help:"price-asc, price-desc, rating-asc or rating-desc"`
}

func (c *BooksCmd) Validate() error {
	if c.Sort != "" && !strings.EqualFold(c.Sort, "none") && browse.ParseSortKey(c.Sort) == browse.SortNone {
		return fmt.Errorf("unknown sort %q", c.Sort)
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		return fmt.Errorf("min rating must be between 0 and 5")
	}
	return nil
}

func (c *BooksCmd) Run(a *app) error {
	if _, err := a.session.RefreshCatalog(a.ctx); err != nil {
		return err
	}
	engine := a.session.Engine()
	engine.SetSort(browse.ParseSortKey(c.Sort))
	if c.Search != "" {
		engine.Search(c.Search, browse.WithCategory(c.Category), browse.WithMinRating(c.MinRating))
	} else {
		engine.Filter(c.Category, c.MinRating)
	}
	return printBrowse(a, engine.Displayed())
}

type LikedCmd struct{}

func (LikedCmd) Run(a *app) error {
	if err := a.session.RefreshLiked(a.ctx); err != nil {
		return err
	}
	liked := a.session.Liked()
	if len(liked) == 0 {
		fmt.Fprintln(a.out, "No liked books yet")
		return nil
	}
	out := make([]browse.Book, 0, len(liked))
	for _, b := range liked {
		out = append(out, b.ToBrowse())
	}
	return printBrowse(a, out)
}

type LikeCmd struct {
	ID string `arg:"" help:"Book id"`
}

func (c *LikeCmd) Run(a *app) error {
	if err := a.session.Like(a.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Liked %s (%d liked)\n", c.ID, len(a.session.Liked()))
	return nil
}

type UnlikeCmd struct {
	ID string `arg:"" help:"Book id"`
}

func (c *UnlikeCmd) Run(a *app) error {
	if err := a.session.Unlike(a.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unliked %s (%d liked)\n", c.ID, len(a.session.Liked()))
	return nil
}

type BrowseCmd struct{}

func (BrowseCmd) Run(a *app) error {
	return runBrowser(a.ctx, a.session)
}

// BookCmd is the admin surface for catalog entries.
type BookCmd struct {
	Add    BookAddCmd    `cmd:"" help:"Add a book"`
	Update BookUpdateCmd `cmd:"" help:"Change fields of a book"`
	Delete BookDeleteCmd `cmd:"" help:"Delete a book"`
}

type BookAddCmd struct {
	Title    string  `required:"" help:"Title"`
	Author   string  `required:"" help:"Author"`
	Year     int     `required:"" help:"Publication year"`
	Category string  `required:"" help:"Category"`
	Price    float64 `required:"" help:"Price, greater than zero"`
	Rating   float64 `required:"" help:"Rating between 1 and 5"`
	Image    string  `required:"" help:"Cover image URL"`
}

func (c *BookAddCmd) Run(a *app) error {
	year, price, rating := c.Year, c.Price, c.Rating
	created, err := a.session.API().CreateBook(a.ctx, book.CreateInput{
		Title:    c.Title,
		Author:   c.Author,
		Year:     &year,
		Category: c.Category,
		Price:    &price,
		Rating:   &rating,
		Image:    c.Image,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s %q\n", created.ID, created.Title)
	return nil
}

// BookUpdateCmd leaves zero-valued flags untouched; zero is never a valid
// value for any of them.
type BookUpdateCmd struct {
	ID       string  `arg:"" help:"Book id"`
	Title    string  `help:"Title"`
	Author   string  `help:"Author"`
	Year     int     `help:"Publication year"`
	Category string  `help:"Category"`
	Price    float64 `help:"Price"`
	Rating   float64 `help:"Rating"`
	Image    string  `help:"Cover image URL"`
}

func (c *BookUpdateCmd) input() book.UpdateInput {
	var in book.UpdateInput
	if c.Title != "" {
		in.Title = &c.Title
	}
	if c.Author != "" {
		in.Author = &c.Author
	}
	if c.Year != 0 {
		in.Year = &c.Year
	}
	if c.Category != "" {
		in.Category = &c.Category
	}
	if c.Price != 0 {
		in.Price = &c.Price
	}
	if c.Rating != 0 {
		in.Rating = &c.Rating
	}
	if c.Image != "" {
		in.Image = &c.Image
	}
	return in
}

func (c *BookUpdateCmd) Run(a *app) error {
	in := c.input()
	if in.Empty() {
		return errors.New("nothing to update: pass at least one field flag")
	}
	updated, err := a.session.API().UpdateBook(a.ctx, c.ID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s %q\n", updated.ID, updated.Title)
	return nil
}

type BookDeleteCmd struct {
	ID string `arg:"" help:"Book id"`
}

func (c *BookDeleteCmd) Run(a *app) error {
	if err := a.session.API().DeleteBook(a.ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", c.ID)
	return nil
}

func printBrowse(a *app, books []browse.Book) error {
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No books found")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tCATEGORY\tPRICE\tRATING\tLIKES\t")
	for _, b := range books {
		mark := ""
		if a.session.IsLiked(b.ID) {
			mark = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\t%d%s\t\n",
			b.ID, b.Title, b.Author, strings.ToUpper(b.Category),
			strconv.FormatFloat(b.Price, 'f', 2, 64), b.Rating, b.TotalLikes, mark)
	}
	return tw.Flush()
}
