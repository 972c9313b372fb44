package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/yungbote/apprende-client/internal/client"
	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/reorder"
	"github.com/yungbote/apprende-client/internal/tui"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	app *client.App
	out io.Writer
}

var usage = [][2]string{
	{"register -name NAME -email EMAIL", "create an account and sign in"},
	{"login -email EMAIL", "sign in; the password is prompted"},
	{"logout", "forget the stored session"},
	{"whoami", "show the signed-in user"},
	{"catalog [-q TEXT] [-category ID]", "list published courses"},
	{"course -id COURSE", "course detail with reviews"},
	{"enroll -id COURSE", "enroll in a course"},
	{"my-learning", "courses you are enrolled in"},
	{"review -id COURSE -rating 1-5 [-comment TEXT]", "review an enrolled course"},
	{"reply -id REVIEW -text TEXT", "answer a review on your course"},
	{"become-instructor", "upgrade your account"},
	{"create-course -title TITLE [-price N] [-level L]", "create a course"},
	{"my-courses", "courses you teach"},
	{"add-section -course COURSE -title TITLE", "append a section"},
	{"add-lesson -section SECTION -title TITLE (-file PATH | -url URL) [-type video] [-preview]", "append a lesson"},
	{"upload -file PATH", "upload a media file"},
	{"reorder -course COURSE (-section ID | -lesson ID [-to-section ID]) -index N", "move a section or lesson"},
	{"progress -id COURSE", "completed lessons and percentage"},
	{"toggle -course COURSE -lesson LESSON", "mark a lesson complete or not"},
	{"play -course COURSE -lesson LESSON", "print the lesson media URL"},
	{"certificate -id COURSE [-dir DIR]", "download the completion certificate"},
	{"browse", "interactive catalog"},
	{"learn -id COURSE [-dir DIR]", "interactive lesson player"},
	{"manage -id COURSE", "interactive content manager"},
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage: apprende COMMAND [flags]")
	tw := tabwriter.NewWriter(cli.out, 2, 4, 2, ' ', 0)
	for _, u := range usage {
		fmt.Fprintf(tw, "  %s\t%s\n", u[0], u[1])
	}
	_ = tw.Flush()
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	name, rest := args[1], args[2:]
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)

	switch name {
	case "register":
		fullName := fs.String("name", "", "full name")
		email := fs.String("email", "", "email address")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		pwd, err := promptPassword(cli.out, "Contraseña: ")
		if err != nil {
			return err
		}
		u, err := cli.app.Register(ctx, account.Registration{FullName: *fullName, Email: *email, Password: pwd})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Bienvenido, %s\n", u.FullName)
		return nil

	case "login":
		email := fs.String("email", "", "email address")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		pwd, err := promptPassword(cli.out, "Contraseña: ")
		if err != nil {
			return err
		}
		u, err := cli.app.Login(ctx, *email, pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Sesión iniciada como %s (%s)\n", u.FullName, u.Role)
		return nil

	case "logout":
		if err := cli.app.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Sesión cerrada")
		return nil

	case "whoami":
		u, err := cli.app.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s <%s> %s\n", u.FullName, u.Email, u.Role)
		return nil

	case "become-instructor":
		u, msg, err := cli.app.BecomeInstructor(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s (%s)\n", msg, u.Role)
		return nil

	case "catalog":
		q := fs.String("q", "", "search text")
		category := fs.Int("category", 0, "category id")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		f := client.Filter{Query: *q}
		if *category > 0 {
			f.CategoryID = category
		}
		courses, err := cli.app.Catalog(ctx, f)
		if err != nil {
			return err
		}
		cli.printCourses(courses)
		return nil

	case "my-courses":
		courses, err := cli.app.MyCourses(ctx)
		if err != nil {
			return err
		}
		cli.printCourses(courses)
		return nil

	case "course":
		id := uuidFlag(fs, "id", "course id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		page, err := cli.app.CourseDetail(ctx, id.value)
		if err != nil {
			return err
		}
		cli.printCourse(page)
		return nil

	case "enroll":
		id := uuidFlag(fs, "id", "course id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		res, err := cli.app.Enroll(ctx, id.value)
		if err != nil {
			return err
		}
		if res.AlreadyEnrolled {
			fmt.Fprintln(cli.out, "Ya estás inscrito en este curso")
			return nil
		}
		fmt.Fprintln(cli.out, "¡Inscripción completada!")
		return nil

	case "my-learning":
		rows, err := cli.app.MyLearning(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cli.out, 2, 4, 2, ' ', 0)
		for _, e := range rows {
			title := e.CourseID.String()
			if e.Course != nil {
				title = e.Course.Title
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CourseID, title, e.PurchasedAt.Format("2006-01-02"))
		}
		return tw.Flush()

	case "review":
		id := uuidFlag(fs, "id", "course id")
		rating := fs.Int("rating", 0, "1 to 5")
		comment := fs.String("comment", "", "comment")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		r, err := cli.app.Review(ctx, courseapi.ReviewDraft{CourseID: id.value, Rating: *rating, Comment: *comment})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Reseña publicada %s\n", r.ID)
		return nil

	case "reply":
		id := uuidFlag(fs, "id", "review id")
		text := fs.String("text", "", "reply")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		if _, err := cli.app.ReplyToReview(ctx, id.value, *text); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Respuesta publicada")
		return nil

	case "create-course":
		title := fs.String("title", "", "course title")
		subtitle := fs.String("subtitle", "", "subtitle")
		description := fs.String("description", "", "description")
		price := fs.Float64("price", 0, "price")
		level := fs.String("level", "", "Principiante, Intermedio or Avanzado")
		category := fs.Int("category", 0, "category id")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		draft := courseapi.CourseDraft{
			Title: *title, Subtitle: *subtitle, Description: *description,
			Price: *price, Level: *level,
		}
		if *category > 0 {
			draft.CategoryID = category
		}
		c, err := cli.app.CreateCourse(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Curso creado %s (%s)\n", c.ID, c.Slug)
		return nil

	case "add-section":
		course := uuidFlag(fs, "course", "course id")
		title := fs.String("title", "", "section title")
		if err := parse(fs, rest, course); err != nil {
			return err
		}
		s, err := cli.app.AddSection(ctx, course.value, *title)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Sección %s en posición %d\n", s.ID, s.OrderIndex)
		return nil

	case "add-lesson":
		section := uuidFlag(fs, "section", "section id")
		title := fs.String("title", "", "lesson title")
		file := fs.String("file", "", "media file to upload")
		url := fs.String("url", "", "media URL when no file is uploaded")
		kind := fs.String("type", string(catalog.LessonTypeVideo), "video, pdf, image or quiz")
		preview := fs.Bool("preview", false, "free preview")
		if err := parse(fs, rest, section); err != nil {
			return err
		}
		l, err := cli.app.AddLesson(ctx, section.value, courseapi.LessonDraft{
			Title:           *title,
			VideoResourceID: *url,
			LessonType:      catalog.LessonType(*kind),
			IsFreePreview:   *preview,
		}, *file)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Lección %s en posición %d\n", l.ID, l.OrderIndex)
		return nil

	case "upload":
		file := fs.String("file", "", "file to upload")
		if err := fs.Parse(rest); err != nil {
			return errHelp
		}
		if *file == "" {
			fs.Usage()
			return errHelp
		}
		url, err := cli.app.Upload(ctx, *file)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, url)
		return nil

	case "reorder":
		course := uuidFlag(fs, "course", "course id")
		section := optionalUUIDFlag(fs, "section", "section to move")
		lesson := optionalUUIDFlag(fs, "lesson", "lesson to move")
		toSection := optionalUUIDFlag(fs, "to-section", "destination section of the lesson")
		index := fs.Int("index", -1, "destination position, 0-based")
		if err := parse(fs, rest, course); err != nil {
			return err
		}
		if (section.set == lesson.set) || *index < 0 {
			fs.Usage()
			return errHelp
		}
		var (
			outcome reorder.Outcome
			err     error
		)
		if section.set {
			outcome, err = cli.app.MoveSection(ctx, course.value, section.value, *index)
		} else {
			dst := toSection.value
			if !toSection.set {
				if dst, err = cli.sectionOf(ctx, course.value, lesson.value); err != nil {
					return err
				}
			}
			outcome, err = cli.app.MoveLesson(ctx, course.value, lesson.value, dst, *index)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Reordenado: %s\n", outcome)
		return nil

	case "progress":
		id := uuidFlag(fs, "id", "course id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		p, err := cli.app.OpenPlayer(ctx, id.value)
		if err != nil {
			return err
		}
		cli.printProgress(p)
		return nil

	case "toggle":
		course := uuidFlag(fs, "course", "course id")
		lesson := uuidFlag(fs, "lesson", "lesson id")
		if err := parse(fs, rest, course, lesson); err != nil {
			return err
		}
		p, err := cli.app.OpenPlayer(ctx, course.value)
		if err != nil {
			return err
		}
		if err := p.Select(lesson.value); err != nil {
			return err
		}
		done, err := p.ToggleCurrent(ctx)
		if err != nil {
			return err
		}
		state := "pendiente"
		if done {
			state = "completada"
		}
		fmt.Fprintf(cli.out, "Lección %s; progreso %d%%\n", state, p.Tracker.Percentage())
		return nil

	case "play":
		course := uuidFlag(fs, "course", "course id")
		lesson := uuidFlag(fs, "lesson", "lesson id")
		if err := parse(fs, rest, course, lesson); err != nil {
			return err
		}
		res, err := cli.app.API.PlayLesson(ctx, course.value, lesson.value)
		if err != nil {
			return err
		}
		fmt.Fprintln(cli.out, res.VideoURL)
		return nil

	case "certificate":
		id := uuidFlag(fs, "id", "course id")
		dir := fs.String("dir", ".", "output directory")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		p, err := cli.app.OpenPlayer(ctx, id.value)
		if err != nil {
			return err
		}
		path, err := p.DownloadCertificate(ctx, *dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Certificado guardado en %s\n", path)
		return nil

	case "browse":
		return tui.RunBrowse(ctx, cli.app)

	case "learn":
		id := uuidFlag(fs, "id", "course id")
		dir := fs.String("dir", ".", "certificate directory")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		return tui.RunLearn(ctx, cli.app, id.value, *dir)

	case "manage":
		id := uuidFlag(fs, "id", "course id")
		if err := parse(fs, rest, id); err != nil {
			return err
		}
		return tui.RunManage(ctx, cli.app, id.value)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) sectionOf(ctx context.Context, courseID, lessonID uuid.UUID) (uuid.UUID, error) {
	c, err := cli.app.API.GetCourse(ctx, courseID)
	if err != nil {
		return uuid.Nil, err
	}
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			if l.ID == lessonID {
				return s.ID, nil
			}
		}
	}
	return uuid.Nil, fmt.Errorf("lesson %s not in course %s", lessonID, courseID)
}

func (cli *commandLine) printCourses(courses []catalog.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "No hay cursos")
		return
	}
	tw := tabwriter.NewWriter(cli.out, 2, 4, 2, ' ', 0)
	for _, c := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", c.ID, c.Title, c.Price, c.Level)
	}
	_ = tw.Flush()
}

func (cli *commandLine) printCourse(p *client.CoursePage) {
	c := p.Course
	fmt.Fprintf(cli.out, "%s\n%s\n", c.Title, c.Description)
	for i, s := range c.Sections {
		fmt.Fprintf(cli.out, "%d. %s [%s]\n", i+1, s.Title, s.ID)
		for j, l := range s.Lessons {
			preview := ""
			if l.IsFreePreview {
				preview = " (vista previa)"
			}
			fmt.Fprintf(cli.out, "   %d.%d %s [%s]%s\n", i+1, j+1, l.Title, l.ID, preview)
		}
	}
	fmt.Fprintf(cli.out, "Valoración %.1f (%d reseñas)\n", p.AverageRating, len(p.Reviews))
	if p.Enrolled {
		fmt.Fprintln(cli.out, "Inscrito")
	}
}

func (cli *commandLine) printProgress(p *client.Player) {
	tr := p.Tracker
	for _, s := range p.Tree.Sections {
		fmt.Fprintln(cli.out, s.Title)
		for _, l := range s.Lessons {
			mark := "[ ]"
			if tr.Completed(l.ID) {
				mark = "[x]"
			}
			fmt.Fprintf(cli.out, "  %s %s\n", mark, l.Title)
		}
	}
	fmt.Fprintf(cli.out, "Progreso %d%%\n", tr.Percentage())
	if tr.CertificateAvailable() {
		fmt.Fprintln(cli.out, "Certificado disponible")
	}
}

func promptPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pwd), nil
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		parts := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return strings.Join(parts, "; ")
	}
	switch courseapi.KindOf(err) {
	case courseapi.KindAuth:
		return "no has iniciado sesión o tu sesión expiró; ejecuta apprende login"
	case courseapi.KindTransient:
		return "no se pudo contactar con el servidor: " + err.Error()
	}
	var herr *courseapi.HTTPError
	if errors.As(err, &herr) && herr.Message != "" {
		return herr.Message
	}
	return err.Error()
}

// uuidValue is a flag.Value for required or optional ids.
type uuidValue struct {
	name  string
	value uuid.UUID
	set   bool
}

func (u *uuidValue) String() string {
	if u == nil || !u.set {
		return ""
	}
	return u.value.String()
}

func (u *uuidValue) Set(s string) error {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	u.value, u.set = id, true
	return nil
}

func uuidFlag(fs *flag.FlagSet, name, usage string) *uuidValue {
	v := &uuidValue{name: name}
	fs.Var(v, name, usage)
	return v
}

func optionalUUIDFlag(fs *flag.FlagSet, name, usage string) *uuidValue {
	return uuidFlag(fs, name, usage+" (optional)")
}

// parse parses rest and checks that every required id was given.
func parse(fs *flag.FlagSet, rest []string, required ...*uuidValue) error {
	if err := fs.Parse(rest); err != nil {
		return errHelp
	}
	for _, r := range required {
		if !r.set {
			fmt.Fprintf(fs.Output(), "missing -%s\n", r.name)
			fs.Usage()
			return errHelp
		}
	}
	return nil
}
