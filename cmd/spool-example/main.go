package main

import (
	"context"
	"fmt"

	"github.com/gowool/spool"
	"github.com/gowool/spool/logger"
	"github.com/gowool/spool/render"
	"go.uber.org/zap"
)

const page = `<!DOCTYPE html>
<html>
    <head>
        <title>Parse data</title>
    </head>
    <body>
        <h1>Hello, fill your profile</h1>
        <div id="result"></div>
        <form id="form" method="post">
            <label>First Name:</label><input type="text" name="first_name" />
            <label>Last Name:</label><input type="text" name="last_name" />
            <legend>What is Your Favorite Pet?</legend>
            <input type="checkbox" name="lovers" value="Cats">Cats<br>
            <input type="checkbox" name="lovers" value="Dogs">Dogs<br>
            <input type="checkbox" name="lovers" value="Birds">Birds<br>
            <input type="submit" value="Submit" />
        </form>
        <script>
        let form = document.getElementById("form");
        form.addEventListener("submit", async (e) => {
            e.preventDefault();
            let response = await fetch('/%s?username=jobs', {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify({
                    first_name: form.querySelector("input[name='first_name']").value,
                    last_name: form.querySelector("input[name='last_name']").value,
                    lovers: Array.from(form.querySelectorAll("input[name='lovers']:checked")).map(el => el.value),
                }),
            });
            document.getElementById("result").innerHTML = await response.text();
        });
        </script>
    </body>
</html>
`

type Profile struct {
	ID        int64    `path:"id" json:"id"`
	Username  string   `query:"username" json:"username" validate:"required"`
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name"`
	Lovers    []string `json:"lovers"`
}

func hello(spool.Ctx) render.String {
	return "Hello World"
}

func show(c spool.Ctx) render.Text[string] {
	return render.HTMLText(fmt.Sprintf(page, c.Req().PathParamID()))
}

func edit(c spool.Ctx) (render.JSON[Profile], error) {
	var p Profile
	if err := c.BindQuery(&p); err != nil {
		return render.JSON[Profile]{}, err
	}
	if err := c.Bind(&p); err != nil {
		return render.JSON[Profile]{}, err
	}
	return render.JSONOf(p), nil
}

func main() {
	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()
	logger.Set(log)

	cfg, err := spool.LoadServerConfig("SERVER_", ".env")
	if err != nil {
		log.Fatal("config error", zap.Error(err))
	}
	if len(cfg.Addresses) == 1 && cfg.Addresses[0] == ":0" {
		cfg.Addresses = []string{"127.0.0.1:7878", "127.0.0.1:7979"}
	}

	w := spool.New(spool.WithLog(log), spool.WithMiddleware(spool.RequestID()))
	w.MountHealth()
	w.GET("/", spool.Handle(hello))
	w.GET("/:id|^[0-9]+$", spool.Handle(show))
	w.POST("/:id|^[0-9]+$", spool.HandleE(edit))

	srv := spool.NewServer(cfg)
	if err = srv.StartC(context.Background(), w); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
