// Package authgin adapts the authgate middleware to Gin.
//
//	gate, _ := authgate.New()
//	r := gin.New()
//	r.Use(authgin.New(gate))
//	r.GET("/me", func(c *gin.Context) {
//	    claims, err := authgin.RequireLogged(c)
//	    if err != nil {
//	        return
//	    }
//	    c.JSON(http.StatusOK, gin.H{"userid": claims.UserID})
//	})
package authgin
