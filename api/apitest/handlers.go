package apitest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/adminkit/api"
)

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signupBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type forgotBody struct {
	Email string `json:"email" binding:"required,email"`
}

type resetBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func (s *Server) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := strings.ToLower(body.Email)
	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(body.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.sign(u, email)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not issue token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (s *Server) signup(c *gin.Context) {
	var body signupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
		return
	}

	email := strings.ToLower(body.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not create account")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		fail(c, http.StatusConflict, "User already exists")
		return
	}
	s.users[email] = user{id: uuid.NewString(), name: body.Name, hash: hash}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (s *Server) forgotPassword(c *gin.Context) {
	var body forgotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "A valid email is required")
		return
	}

	email := strings.ToLower(body.Email)
	s.mu.Lock()
	if _, ok := s.users[email]; ok {
		s.resetTokens[uuid.NewString()] = email
	}
	s.mu.Unlock()

	// Same answer whether or not the account exists.
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var body resetBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Token and a password of at least 6 characters are required"},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.MinCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Could not reset password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[body.Token]
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "INVALID_TOKEN", "message": "Invalid or expired token"},
		})
		return
	}
	delete(s.resetTokens, body.Token)
	u := s.users[email]
	u.hash = hash
	s.users[email] = u
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	out := sortedProjects(s.projects)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) projectFromForm(c *gin.Context, p *api.Project) {
	if v, ok := c.GetPostForm("title"); ok {
		p.Title = v
	}
	if v, ok := c.GetPostForm("description"); ok {
		p.Description = v
	}
	if v, ok := c.GetPostForm("stack"); ok {
		p.Stack = v
	}
	if v, ok := c.GetPostForm("github"); ok {
		p.Github = v
	}
	if v, ok := c.GetPostForm("live"); ok {
		p.Live = v
	}
	if v, ok := c.GetPostForm("popular"); ok {
		p.Popular = api.FlexBool(v == "true")
	}
	if v, ok := c.GetPostForm("technologies"); ok {
		p.Technologies = api.ParseTechnologies(v)
	}
	if fh, err := c.FormFile("image"); err == nil {
		p.Image = "/uploads/" + fh.Filename
	}
}

func (s *Server) createProject(c *gin.Context) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fail(c, http.StatusBadRequest, "Expected multipart/form-data")
		return
	}

	p := api.Project{ID: uuid.NewString(), CreatedAt: s.now().UTC()}
	s.projectFromForm(c, &p)
	if p.Title == "" {
		fail(c, http.StatusBadRequest, "Project title is required")
		return
	}

	s.mu.Lock()
	s.projects = append(s.projects, p)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

func (s *Server) updateProject(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		s.projectFromForm(c, &s.projects[i])
		c.JSON(http.StatusOK, gin.H{"message": "Project updated", "updatedProject": s.projects[i]})
		return
	}
	fail(c, http.StatusNotFound, "Project not found")
}

func (s *Server) deleteProject(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "Project not found")
}

func (s *Server) listContacts(c *gin.Context) {
	s.mu.Lock()
	out := make([]api.Contact, len(s.contacts))
	copy(out, s.contacts)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) createContact(c *gin.Context) {
	var body api.Contact
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Message == "" {
		fail(c, http.StatusBadRequest, "Email and message are required")
		return
	}
	body.ID = uuid.NewString()
	body.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.contacts = append(s.contacts, body)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"message": "Message sent"})
}

func (s *Server) getContactInfo(c *gin.Context) {
	s.mu.Lock()
	info := s.info
	s.mu.Unlock()
	if info == nil {
		fail(c, http.StatusNotFound, "Contact info not found")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) saveContactInfo(c *gin.Context) {
	var body api.ContactInfo
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid contact information")
		return
	}

	s.mu.Lock()
	if s.info != nil && body.ID == "" {
		body.ID = s.info.ID
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}
	s.info = &body
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
}
