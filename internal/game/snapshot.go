package game

// Snapshot is a deep, read-only copy of a frame for publishing outside the driver goroutine.
type Snapshot struct {
	Tick          int          `json:"tick"`
	Status        Status       `json:"status"`
	Score         int          `json:"score"`
	HighScore     int          `json:"high_score"`
	Lives         int          `json:"lives"`
	LivesDisplay  string       `json:"lives_display"`
	PerfectStreak int          `json:"perfect_streak"`
	BasketStreak  int          `json:"basket_streak"`
	Wind          float64      `json:"wind"`
	CameraY       float64      `json:"camera_y"`
	ShakeTimer    int          `json:"shake_timer"`
	BallColor     string       `json:"ball_color"`
	ScoreColor    string       `json:"score_color"`
	Ball          Ball         `json:"ball"`
	DeadBalls     []Body       `json:"dead_balls"`
	Hoops         []Hoop       `json:"hoops"`
	Obstacles     []Obstacle   `json:"obstacles"`
	Particles     []Particle   `json:"particles"`
	Stars         []Star       `json:"stars,omitempty"`
	Drag          Drag         `json:"drag"`
	Aim           *Aim         `json:"aim,omitempty"`
	Events        []Event      `json:"events,omitempty"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	Seen          SeenFeatures `json:"seen"`
}

// Snapshot copies the current frame. Stars are only included when withStars is set;
// remote clients keep their own.
func (g *GameState) Snapshot(events []Event, withStars bool) Snapshot {
	s := Snapshot{
		Tick:          g.Tick,
		Status:        g.Status,
		Score:         g.Score,
		HighScore:     g.HighScore,
		Lives:         g.Lives,
		LivesDisplay:  LivesDisplay(g.Lives),
		PerfectStreak: g.PerfectStreak,
		BasketStreak:  g.BasketStreak,
		Wind:          g.Wind,
		CameraY:       g.CameraY,
		ShakeTimer:    g.ShakeTimer,
		BallColor:     g.BallColor(),
		ScoreColor:    g.ScoreColor(),
		Ball:          g.Ball,
		DeadBalls:     append([]Body(nil), g.DeadBalls...),
		Obstacles:     append([]Obstacle(nil), g.Obstacles...),
		Particles:     append([]Particle(nil), g.Particles...),
		Events:        events,
		Width:         g.Width,
		Height:        g.Height,
		Seen:          g.Seen,
		Drag:          g.Drag,
	}
	if withStars {
		s.Stars = append([]Star(nil), g.Stars...)
	}
	s.Ball.Trail = append([]Vec2(nil), g.Ball.Trail...)

	s.Hoops = make([]Hoop, 0, len(g.Hoops))
	for _, h := range g.Hoops {
		c := *h
		c.Blockers = append([]Blocker(nil), h.Blockers...)
		if h.Net != nil {
			c.Net = &Net{
				Nodes: append([]NetNode(nil), h.Net.Nodes...),
				Links: append([]NetLink(nil), h.Net.Links...),
				Rows:  h.Net.Rows,
				Cols:  h.Net.Cols,
			}
		}
		s.Hoops = append(s.Hoops, c)
	}

	if aim, ok := g.Preview(); ok {
		s.Aim = &aim
	}
	return s
}
