package main

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/adminkit/api"
	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/httpclient"
)

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and manage portfolio projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(a),
		newProjectsAddCmd(a),
		newProjectsEditCmd(a),
		newProjectsDeleteCmd(a),
	)
	return cmd
}

func newProjectsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			st := c.Projects(cmd.Context())
			if st.IsError() {
				return st.Err
			}
			return printProjects(a.printer(), st.Data)
		},
	}
}

func printProjects(p *printer, projects []api.Project) error {
	rows := make([][]string, 0, len(projects))
	for _, pr := range projects {
		rows = append(rows, []string{
			pr.ID,
			truncate(pr.Title, 32),
			truncate(pr.Stack, 16),
			yesNo(bool(pr.Popular)),
			truncate(pr.Technologies.String(), 40),
			formatTime(pr.CreatedAt),
		})
	}
	if projects == nil {
		projects = []api.Project{}
	}
	return p.print(projects, []string{"ID", "TITLE", "STACK", "POPULAR", "TECHNOLOGIES", "CREATED"}, rows)
}

// projectFlags collects the form fields shared by add and edit.
type projectFlags struct {
	title        string
	description  string
	stack        string
	github       string
	live         string
	technologies string
	popular      bool
	image        string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "project title")
	fl.StringVar(&f.description, "description", "", "project description")
	fl.StringVar(&f.stack, "stack", "", "stack label, e.g. MERN")
	fl.StringVar(&f.github, "github", "", "repository URL")
	fl.StringVar(&f.live, "live", "", "live site URL")
	fl.StringVar(&f.technologies, "technologies", "", "comma separated technologies")
	fl.BoolVar(&f.popular, "popular", false, "mark the project as popular")
	fl.StringVar(&f.image, "image", "", "path of an image file to upload")
}

// input builds the form. On edit, fields whose flags were not set keep the
// values of current.
func (f *projectFlags) input(cmd *cobra.Command, current *api.Project) (api.ProjectInput, error) {
	in := api.ProjectInput{
		Title:        f.title,
		Description:  f.description,
		Stack:        f.stack,
		Github:       f.github,
		Live:         f.live,
		Technologies: api.ParseTechnologies(f.technologies),
	}
	if current != nil {
		changed := cmd.Flags().Changed
		if !changed("title") {
			in.Title = current.Title
		}
		if !changed("description") {
			in.Description = current.Description
		}
		if !changed("stack") {
			in.Stack = current.Stack
		}
		if !changed("github") {
			in.Github = current.Github
		}
		if !changed("live") {
			in.Live = current.Live
		}
		if !changed("technologies") {
			in.Technologies = current.Technologies
		}
	}
	if current == nil || cmd.Flags().Changed("popular") {
		popular := f.popular
		in.Popular = &popular
	}
	if f.image != "" {
		img, err := readImage(f.image)
		if err != nil {
			return in, err
		}
		in.Image = img
	}
	return in, nil
}

func readImage(path string) (*httpclient.FileField, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Validation("cannot read image: " + err.Error())
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &httpclient.FileField{
		FieldName:   "image",
		FileName:    filepath.Base(path),
		ContentType: ct,
		Data:        data,
	}, nil
}

func newProjectsAddCmd(a *app) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input(cmd, nil)
			if err != nil {
				return err
			}
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			created, _, err := c.AddProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			if created == nil {
				return nil
			}
			return printProjects(a.printer(), []api.Project{*created})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newProjectsEditCmd(a *app) *cobra.Command {
	var f projectFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a project; unset flags keep their current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			st := c.Projects(cmd.Context())
			if st.IsError() {
				return st.Err
			}
			var current *api.Project
			for i := range st.Data {
				if st.Data[i].ID == args[0] {
					current = &st.Data[i]
					break
				}
			}
			if current == nil {
				return apperrors.Validation("no project with id " + args[0])
			}

			in, err := f.input(cmd, current)
			if err != nil {
				return err
			}
			updated, _, err := c.UpdateProject(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			if updated == nil {
				return nil
			}
			return printProjects(a.printer(), []api.Project{*updated})
		},
	}

	f.register(cmd)
	return cmd
}

func newProjectsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			_, err = c.DeleteProject(cmd.Context(), args[0])
			return err
		},
	}
}
